package waitingroom

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// CallPublisher announces accepted calls to other services.
type CallPublisher interface {
	PublishCall(ctx context.Context, c Call) error
}

// CalledMessage is the bus payload for an accepted call. It carries ids only;
// patient names stay inside the clinic system.
type CalledMessage struct {
	CallID      uuid.UUID `json:"callId"`
	PatientID   string    `json:"patientId"`
	DoctorID    string    `json:"doctorId"`
	Cabinet     string    `json:"cabinet"`
	QueueNumber int       `json:"queueNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CallRequest asks the pager to call a patient. Received on CallRequestSubject.
type CallRequest struct {
	Patient Patient `json:"patient"`
	Doctor  Doctor  `json:"doctor"`
	Cabinet string  `json:"cabinet"`
}

// CallReply answers a CallRequest sent with a reply subject.
type CallReply struct {
	CallID uuid.UUID `json:"callId,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func CallRequestSubject(prefix string) string {
	return prefix + ".waitingroom.call"
}

func CalledSubject(prefix, cabinet string) string {
	return prefix + ".waitingroom.called." + subjectToken(cabinet)
}

// subjectToken folds a cabinet label into a single NATS subject token.
func subjectToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

type NatsPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNatsPublisher(nc *nats.Conn, prefix string) *NatsPublisher {
	return &NatsPublisher{nc: nc, prefix: prefix}
}

func (p *NatsPublisher) PublishCall(ctx context.Context, c Call) error {
	data, err := json.Marshal(CalledMessage{
		CallID:      c.ID,
		PatientID:   c.Patient.ID,
		DoctorID:    c.Doctor.ID,
		Cabinet:     c.Cabinet,
		QueueNumber: c.QueueNumber,
		CreatedAt:   c.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode called message: %w", err)
	}
	if err := p.nc.Publish(CalledSubject(p.prefix, c.Cabinet), data); err != nil {
		return fmt.Errorf("publish called message: %w", err)
	}
	return nil
}
