package kiosk

import (
	"context"
	"log"
	"net/http"

	"rfidattend/internal/domain"
	"rfidattend/internal/metrics"
	"rfidattend/internal/queue"
	"rfidattend/internal/result"
)

// Poster posts a card read to the attendance backend.
type Poster interface {
	PostRFID(ctx context.Context, rfidUID string) result.Result[domain.RFIDTapWire]
}

// Forwarder drains tap messages and posts each tap once.
type Forwarder struct {
	journal Journal
	api     Poster
}

func NewForwarder(journal Journal, api Poster) *Forwarder {
	return &Forwarder{journal: journal, api: api}
}

// Run consumes messages until the channel closes or ctx is done.
func (f *Forwarder) Run(ctx context.Context, messages <-chan queue.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if msg.Type != MessageType {
				continue
			}
			if _, err := f.Forward(ctx, string(msg.Body)); err != nil {
				log.Printf("forward tap %s: %v", msg.Body, err)
			}
		}
	}
}

// Forward posts one journaled tap and stores the outcome.
func (f *Forwarder) Forward(ctx context.Context, id string) (Outcome, error) {
	tap, err := f.journal.GetTap(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if tap.Status != StatusPending {
		return Outcome{Status: tap.Status, Code: tap.Code, Message: tap.Message, StudentName: tap.StudentName}, nil
	}

	out := Classify(f.api.PostRFID(ctx, tap.RFIDUID))
	if err := f.journal.UpdateTapStatus(ctx, id, out); err != nil {
		return out, err
	}
	metrics.Taps.WithLabelValues(out.Status).Inc()
	log.Printf("tap %s (%s on %s): %s %q", id, tap.RFIDUID, tap.DeviceID, out.Status, out.Message)
	return out, nil
}

// Classify turns a backend answer into a tap outcome. 4xx answers and
// in-body details are rejections; transport errors and 5xx are failures.
func Classify(res result.Result[domain.RFIDTapWire]) Outcome {
	if res.OK {
		o := domain.TapOutcomeFromWire(res.Data)
		if !o.OK {
			return Outcome{Status: StatusRejected, Code: http.StatusOK, Message: o.Message}
		}
		return Outcome{Status: StatusRecorded, Code: http.StatusOK, Message: o.Message, StudentName: o.Student}
	}
	if res.Err == nil {
		return Outcome{Status: StatusFailed, Code: http.StatusInternalServerError, Message: "An unknown error occured"}
	}
	status := StatusFailed
	if res.Err.Code >= 400 && res.Err.Code < 500 {
		status = StatusRejected
	}
	return Outcome{Status: status, Code: res.Err.Code, Message: res.Err.Message}
}
