package dashboard

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"newslens/internal/export"
)

var ErrCopyInProgress = errors.New("copy already in progress")

const (
	NoticeAssistantCopied = "Analysis copied to clipboard!"
	NoticeLinkCopied      = "Link copied to clipboard!"
	NoticeDuration        = 3 * time.Second

	AlertCopyFailed  = "Failed to copy to clipboard. Please try again."
	AlertShareFailed = "Failed to copy link to clipboard. Please try again."
)

// Result is delivered to the completion callback of a copy action.
type Result struct {
	Notice  string
	Alert   string
	OpenURL string
	Err     error
}

// Actions wires the two clipboard exports of a dashboard. Only one copy may be
// outstanding at a time.
type Actions struct {
	dashboard    *Dashboard
	assistantURL string
	busy         atomic.Bool
}

func NewActions(d *Dashboard, assistantURL string) *Actions {
	return &Actions{dashboard: d, assistantURL: assistantURL}
}

// CopyForAssistant writes the analysis-assistant payload to clip and calls done
// once the write finishes.
func (a *Actions) CopyForAssistant(ctx context.Context, clip Clipboard, done func(Result)) error {
	payload, err := export.AssistantPayload(a.dashboard.Comparison())
	if err != nil {
		return err
	}
	return a.start(ctx, clip, payload,
		Result{Notice: NoticeAssistantCopied, OpenURL: a.assistantURL},
		Result{Alert: AlertCopyFailed},
		done,
	)
}

// Share writes link to clip and calls done once the write finishes.
func (a *Actions) Share(ctx context.Context, clip Clipboard, link string, done func(Result)) error {
	return a.start(ctx, clip, link,
		Result{Notice: NoticeLinkCopied},
		Result{Alert: AlertShareFailed},
		done,
	)
}

func (a *Actions) start(ctx context.Context, clip Clipboard, text string, ok, failed Result, done func(Result)) error {
	if !a.busy.CompareAndSwap(false, true) {
		return ErrCopyInProgress
	}
	go func() {
		err := clip.WriteText(ctx, text)
		a.busy.Store(false)

		res := ok
		if err != nil {
			log.Printf("could not copy text: %v", err)
			res = failed
			res.Err = err
		}
		if done != nil {
			done(res)
		}
	}()
	return nil
}
