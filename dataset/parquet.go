package dataset

import (
	"fmt"
	"math"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

// tableRow is the fixed parquet schema of a SampleTable. A channel absent from
// the table is written as nulls; NaN values inside a present channel are
// written as NaN.
type tableRow struct {
	Time float64 `parquet:"name=time, type=DOUBLE"`

	DISWx   *float64 `parquet:"name=DIS_Wx, type=DOUBLE, repetitiontype=OPTIONAL"`
	DISWy   *float64 `parquet:"name=DIS_Wy, type=DOUBLE, repetitiontype=OPTIONAL"`
	DISWz   *float64 `parquet:"name=DIS_Wz, type=DOUBLE, repetitiontype=OPTIONAL"`
	I1Kren  *float64 `parquet:"name=I1_Kren, type=DOUBLE, repetitiontype=OPTIONAL"`
	I1Tang  *float64 `parquet:"name=I1_Tang, type=DOUBLE, repetitiontype=OPTIONAL"`
	I1KursI *float64 `parquet:"name=I1_KursI, type=DOUBLE, repetitiontype=OPTIONAL"`
	JVDVN   *float64 `parquet:"name=JVD_VN, type=DOUBLE, repetitiontype=OPTIONAL"`
	JVDVE   *float64 `parquet:"name=JVD_VE, type=DOUBLE, repetitiontype=OPTIONAL"`
	JVDVh   *float64 `parquet:"name=JVD_Vh, type=DOUBLE, repetitiontype=OPTIONAL"`
	JVDH    *float64 `parquet:"name=JVD_H, type=DOUBLE, repetitiontype=OPTIONAL"`

	WxDissPNK *float64 `parquet:"name=Wx_DISS_PNK, type=DOUBLE, repetitiontype=OPTIONAL"`
	WzDissPNK *float64 `parquet:"name=Wz_DISS_PNK, type=DOUBLE, repetitiontype=OPTIONAL"`
	WyDissPNK *float64 `parquet:"name=Wy_DISS_PNK, type=DOUBLE, repetitiontype=OPTIONAL"`
	KrenSin   *float64 `parquet:"name=Kren_sin, type=DOUBLE, repetitiontype=OPTIONAL"`
	KrenCos   *float64 `parquet:"name=Kren_cos, type=DOUBLE, repetitiontype=OPTIONAL"`
	TangSin   *float64 `parquet:"name=Tang_sin, type=DOUBLE, repetitiontype=OPTIONAL"`
	TangCos   *float64 `parquet:"name=Tang_cos, type=DOUBLE, repetitiontype=OPTIONAL"`
	KursSin   *float64 `parquet:"name=Kurs_sin, type=DOUBLE, repetitiontype=OPTIONAL"`
	KursCos   *float64 `parquet:"name=Kurs_cos, type=DOUBLE, repetitiontype=OPTIONAL"`
	WxgKBTI   *float64 `parquet:"name=Wxg_KBTIi, type=DOUBLE, repetitiontype=OPTIONAL"`
	WzgKBTI   *float64 `parquet:"name=Wzg_KBTIi, type=DOUBLE, repetitiontype=OPTIONAL"`
	WygKBTI   *float64 `parquet:"name=Wyg_KBTIi, type=DOUBLE, repetitiontype=OPTIONAL"`
	WxcKBTI   *float64 `parquet:"name=Wxc_KBTIi, type=DOUBLE, repetitiontype=OPTIONAL"`
	WycKBTI   *float64 `parquet:"name=Wyc_KBTIi, type=DOUBLE, repetitiontype=OPTIONAL"`
	WzcKBTI   *float64 `parquet:"name=Wzc_KBTIi, type=DOUBLE, repetitiontype=OPTIONAL"`
	WpKBTI    *float64 `parquet:"name=Wp_KBTIi, type=DOUBLE, repetitiontype=OPTIONAL"`
	WpDissPNK *float64 `parquet:"name=Wp_diss_pnki, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// slots returns the channel fields in flightcalc.AllChannels order.
func (r *tableRow) slots() []**float64 {
	return []**float64{
		&r.DISWx, &r.DISWy, &r.DISWz, &r.I1Kren, &r.I1Tang, &r.I1KursI,
		&r.JVDVN, &r.JVDVE, &r.JVDVh, &r.JVDH,
		&r.WxDissPNK, &r.WzDissPNK, &r.WyDissPNK,
		&r.KrenSin, &r.KrenCos, &r.TangSin, &r.TangCos, &r.KursSin, &r.KursCos,
		&r.WxgKBTI, &r.WzgKBTI, &r.WygKBTI,
		&r.WxcKBTI, &r.WycKBTI, &r.WzcKBTI,
		&r.WpKBTI, &r.WpDissPNK,
	}
}

// WriteParquet writes t to a local parquet file.
func WriteParquet(path string, t *flightcalc.SampleTable) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	if err := writeTable(fw, t); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// MarshalParquet renders t as parquet bytes.
func MarshalParquet(t *flightcalc.SampleTable) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	if err := writeTable(fw, t); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func writeTable(fw source.ParquetFile, t *flightcalc.SampleTable) error {
	pw, err := writer.NewParquetWriter(fw, new(tableRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	channels := flightcalc.AllChannels()
	cols := make([][]float64, len(channels))
	for i, c := range channels {
		cols[i], _ = t.Column(c)
	}
	for ri, ts := range t.Time() {
		row := tableRow{Time: ts}
		for ci, slot := range row.slots() {
			if cols[ci] != nil {
				v := cols[ci][ri]
				*slot = &v
			}
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	return pw.WriteStop()
}

// ReadParquet loads a table written by WriteParquet. A channel is present when
// at least one of its cells is non-null.
func ReadParquet(path string) (*flightcalc.SampleTable, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()
	return readTable(fr)
}

// UnmarshalParquet is ReadParquet for in-memory bytes.
func UnmarshalParquet(data []byte) (*flightcalc.SampleTable, error) {
	return readTable(parquetbuffer.NewBufferFileFromBytes(data))
}

func readTable(fr source.ParquetFile) (*flightcalc.SampleTable, error) {
	pr, err := reader.NewParquetReader(fr, new(tableRow), 4)
	if err != nil {
		return nil, fmt.Errorf("open parquet reader: %w", err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	rows := make([]tableRow, n)
	if n > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}

	times := make([]float64, n)
	for i := range rows {
		times[i] = rows[i].Time
	}
	channels := flightcalc.AllChannels()
	cols := make([][]float64, len(channels))
	for ri := range rows {
		for ci, slot := range rows[ri].slots() {
			if *slot == nil {
				continue
			}
			if cols[ci] == nil {
				cols[ci] = nanColumn(n)
			}
			cols[ci][ri] = **slot
		}
	}

	t := flightcalc.NewSampleTable(times)
	for ci, c := range channels {
		if cols[ci] == nil {
			continue
		}
		if err := t.Set(c, cols[ci]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func nanColumn(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
