package domain

import (
	"bytes"
	"encoding/json"
)

// ObjectCreated é a notificação do armazenamento de objetos ("objeto criado").
type ObjectCreated struct {
	Bucket string
	Key    string // Codificada como na notificação (percent-encoding e '+' para espaço)
}

// Field é um par nome/valor de uma linha do CSV.
type Field struct {
	Name  string
	Value string
}

// ImportRow é uma linha decodificada do CSV, com os campos na ordem do cabeçalho.
// Transiente: existe apenas entre a decodificação e o envio para a fila.
type ImportRow struct {
	Fields []Field
}

// Get retorna o valor do campo pelo nome do cabeçalho.
func (r ImportRow) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON preserva a ordem do cabeçalho. Um "id" vazio é omitido para que o
// consumidor gere um novo identificador.
func (r ImportRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range r.Fields {
		if f.Name == "id" && f.Value == "" {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QueueMessage é o envelope recebido da fila.
type QueueMessage struct {
	MessageID     string
	Body          string
	ReceiptHandle string // Usado apenas para confirmar (deletar) a mensagem
	ReceiveCount  int    // Contagem aproximada de entregas (política de DLQ é externa)
}

// NotificationStatus é o resultado publicado no tópico.
type NotificationStatus string

const (
	StatusSuccess NotificationStatus = "success"
	StatusFailure NotificationStatus = "failure"
)

// NotificationProduct é o produto como aparece no corpo da notificação.
type NotificationProduct struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Count       float64 `json:"count"`
}

// Notification é a mensagem de resultado publicada para cada mensagem original.
type Notification struct {
	Status  NotificationStatus  `json:"status"`
	Product NotificationProduct `json:"product"`
	Error   string              `json:"error,omitempty"`
}

// NewNotification monta a notificação a partir do payload original.
func NewNotification(status NotificationStatus, in ProductInput, errText string) Notification {
	return Notification{
		Status: status,
		Product: NotificationProduct{
			ID:          in.ID,
			Title:       in.Title,
			Description: in.Description,
			Price:       in.Price.Float64(),
			Count:       in.Count.Float64(),
		},
		Error: errText,
	}
}
