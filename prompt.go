package inkwell

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// PromptKind hints at the editor a host should show.
type PromptKind uint8

const (
	PromptText PromptKind = iota
	PromptColor
	PromptNumber
)

// PromptRequest is passed to the host Prompter.
type PromptRequest struct {
	Kind    PromptKind
	Title   string
	Initial string
}

// PromptPolicy decides what happens to a prompt raised while another is
// outstanding.
type PromptPolicy uint8

const (
	// PromptQueue runs the prompt once the outstanding one completes.
	PromptQueue PromptPolicy = iota
	// PromptDrop discards the prompt.
	PromptDrop
)

// Prompt is a tool's request for user input. Apply runs on the UI thread
// with the answer and its Outcome is processed like a Handle result. A
// cancelled or failed prompt never reaches Apply.
type Prompt struct {
	Request PromptRequest
	Policy  PromptPolicy
	Apply   func(answer string, ctx *Context) Outcome
}

// Prompter asks the user for a value. It runs on its own goroutine and must
// return promptly once ctx is done.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, req PromptRequest) (string, error)

func (f PrompterFunc) Prompt(ctx context.Context, req PromptRequest) (string, error) {
	return f(ctx, req)
}

type promptResult struct {
	prompt *Prompt
	answer string
	err    error
}

// promptRunner keeps at most one prompt outstanding.
type promptRunner struct {
	host    Prompter
	log     *slog.Logger
	sem     *semaphore.Weighted
	queue   []*Prompt
	results chan promptResult

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newPromptRunner(host Prompter, log *slog.Logger) *promptRunner {
	ctx, cancel := context.WithCancel(context.Background())
	return &promptRunner{
		host:    host,
		log:     log,
		sem:     semaphore.NewWeighted(1),
		results: make(chan promptResult, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// request starts p, queues it, or drops it with ErrPromptBusy.
func (r *promptRunner) request(p *Prompt) error {
	if r.host == nil {
		r.log.Warn("prompt dropped, no prompter configured", "title", p.Request.Title)
		return ErrNoPrompter
	}
	if r.ctx.Err() != nil {
		return ErrClosed
	}
	if r.sem.TryAcquire(1) {
		r.start(p)
		return nil
	}
	if p.Policy == PromptQueue {
		r.queue = append(r.queue, p)
		return nil
	}
	r.log.Warn("prompt dropped, another prompt is outstanding", "title", p.Request.Title)
	return ErrPromptBusy
}

func (r *promptRunner) start(p *Prompt) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		answer, err := r.host.Prompt(r.ctx, p.Request)
		if err == nil && r.ctx.Err() != nil {
			err = r.ctx.Err()
		}
		r.results <- promptResult{prompt: p, answer: answer, err: err}
	}()
}

// poll returns a completed prompt, if any, and starts the next queued one.
func (r *promptRunner) poll() (promptResult, bool) {
	select {
	case res := <-r.results:
		r.sem.Release(1)
		if len(r.queue) > 0 && r.ctx.Err() == nil && r.sem.TryAcquire(1) {
			next := r.queue[0]
			r.queue = r.queue[1:]
			r.start(next)
		}
		return res, true
	default:
		return promptResult{}, false
	}
}

// busy reports whether a prompt is outstanding or queued.
func (r *promptRunner) busy() bool {
	if len(r.queue) > 0 {
		return true
	}
	if r.sem.TryAcquire(1) {
		r.sem.Release(1)
		return false
	}
	return true
}

// close cancels the outstanding prompt, waits for its goroutine and drops
// the queue. Results are discarded.
func (r *promptRunner) close() {
	r.cancel()
	r.queue = nil
	r.wg.Wait()
	select {
	case <-r.results:
	default:
	}
}

// isCancel reports whether err means the user or the canvas cancelled.
func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, ErrPromptCancelled)
}
