// Package csvrows lê um CSV com cabeçalho como uma sequência preguiçosa de linhas.
package csvrows

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
)

const utf8BOM = "\ufeff"

// Decoder produz uma domain.ImportRow por chamada de Next.
// Não é reiniciável: depois de io.EOF ou de um erro, Next devolve sempre o mesmo erro.
type Decoder struct {
	r      *csv.Reader
	header []string
	err    error
}

// NewDecoder cria o decoder sobre o stream. Nada é lido até a primeira chamada de Next.
func NewDecoder(r io.Reader) *Decoder {
	cr := csv.NewReader(r)
	cr.Comma = ','
	cr.FieldsPerRecord = 0 // o cabeçalho define a quantidade de campos
	return &Decoder{r: cr}
}

// Header retorna os nomes das colunas, disponíveis após a primeira chamada de Next.
func (d *Decoder) Header() []string {
	return d.header
}

// Next retorna a próxima linha, io.EOF no fim do stream ou um ParseError.
func (d *Decoder) Next() (domain.ImportRow, error) {
	if d.err != nil {
		return domain.ImportRow{}, d.err
	}

	if d.header == nil {
		if err := d.readHeader(); err != nil {
			d.err = err
			return domain.ImportRow{}, err
		}
	}

	record, err := d.r.Read()
	if err != nil {
		d.err = d.wrap(err)
		return domain.ImportRow{}, d.err
	}

	row := domain.ImportRow{Fields: make([]domain.Field, len(d.header))}
	for i, name := range d.header {
		row.Fields[i] = domain.Field{Name: name, Value: record[i]}
	}
	return row, nil
}

func (d *Decoder) readHeader() error {
	record, err := d.r.Read()
	if err != nil {
		return d.wrap(err)
	}

	header := make([]string, len(record))
	for i, name := range record {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = strings.TrimSpace(name)
	}
	d.header = header
	return nil
}

// wrap mantém io.EOF, converte erros de formato em ParseError com a linha
// e falhas de leitura do stream em UpstreamError.
func (d *Decoder) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return apperror.NewParseError(perr.Line, perr.Err)
	}
	return apperror.NewUpstreamError("read object stream", err)
}
