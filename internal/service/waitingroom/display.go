package waitingroom

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DisplayCall is the privacy-safe projection of a call for public screens.
type DisplayCall struct {
	ID          uuid.UUID `json:"id"`
	Patient     string    `json:"patient"`
	Doctor      string    `json:"doctor"`
	Cabinet     string    `json:"cabinet"`
	Time        string    `json:"time"`
	CalledAt    time.Time `json:"calledAt"`
	QueueNumber int       `json:"queueNumber,omitempty"`
}

// DisplayView is everything a waiting-room screen renders.
type DisplayView struct {
	Current             *DisplayCall  `json:"current"`
	History             []DisplayCall `json:"history"`
	AutoRefreshInterval int           `json:"autoRefreshInterval"`
	AnimationEnabled    bool          `json:"animationEnabled"`
	ShowEstimatedTime   bool          `json:"showEstimatedTime"`
	GeneratedAt         time.Time     `json:"generatedAt"`
}

func projectCall(c Call, showQueueNumber bool) DisplayCall {
	dc := DisplayCall{
		ID:       c.ID,
		Patient:  c.PatientLabel(),
		Doctor:   c.DoctorLabel(),
		Cabinet:  c.Cabinet,
		Time:     c.CreatedAt.Format("15:04"),
		CalledAt: c.CreatedAt,
	}
	if showQueueNumber {
		dc.QueueNumber = c.QueueNumber
	}
	return dc
}

func buildDisplayView(current *Call, history []Call, s Settings, limit int, now time.Time) DisplayView {
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	view := DisplayView{
		History: lo.Map(history, func(c Call, _ int) DisplayCall {
			return projectCall(c, s.ShowQueueNumber)
		}),
		AutoRefreshInterval: s.AutoRefreshInterval,
		AnimationEnabled:    s.AnimationEnabled,
		ShowEstimatedTime:   s.ShowEstimatedTime,
		GeneratedAt:         now,
	}
	if current != nil {
		dc := projectCall(*current, s.ShowQueueNumber)
		view.Current = &dc
	}
	return view
}
