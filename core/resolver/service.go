// ABOUTME: Fallback resolver walks the configured sources in priority order
// ABOUTME: Stops at the first non-empty answer and records provenance for every attempt

package resolver

import (
	"context"
	"fmt"
	"time"

	"otakubantu-api/core/domain"
	coreerrors "otakubantu-api/core/errors"
	"otakubantu-api/core/interfaces"
)

// Resolver runs the fallback cascade for one request at a time. It holds no
// per-request state and is safe for concurrent use.
type Resolver struct {
	sources []interfaces.Source
	deps    interfaces.Dependencies
}

// NewResolver validates the source set and orders it for the cascade.
// A misconfigured set returns a ConfigError.
func NewResolver(sources []interfaces.Source, deps interfaces.Dependencies) (*Resolver, error) {
	descriptors := make([]domain.SourceDescriptor, 0, len(sources))
	byName := make(map[string]interfaces.Source, len(sources))
	for _, src := range sources {
		d := src.Descriptor()
		descriptors = append(descriptors, d)
		byName[d.Name] = src
	}

	if err := domain.ValidateDescriptors(descriptors); err != nil {
		return nil, &coreerrors.ConfigError{Setting: "sources", Message: err.Error()}
	}

	ordered := make([]interfaces.Source, 0, len(sources))
	for _, d := range domain.SortDescriptors(descriptors) {
		ordered = append(ordered, byName[d.Name])
	}

	return &Resolver{
		sources: ordered,
		deps:    deps,
	}, nil
}

// Descriptors returns the sources in attempt order
func (r *Resolver) Descriptors() []domain.SourceDescriptor {
	out := make([]domain.SourceDescriptor, 0, len(r.sources))
	for _, src := range r.sources {
		out = append(out, src.Descriptor())
	}
	return out
}

// Resolve attempts every source in priority order until one returns at
// least one item. Source faults never escape: an exhausted cascade is a
// normal result with Succeeded=false, or Succeeded=true and IsEmpty=true
// when the last attempted source answered empty.
func (r *Resolver) Resolve(ctx context.Context, req domain.ResolutionRequest) domain.ResolutionResult {
	result := domain.ResolutionResult{
		Attempts: make([]domain.Attempt, 0, len(r.sources)),
	}

	var last domain.Outcome
	for _, src := range r.sources {
		if f, ok := src.(interfaces.KindFilter); ok && !f.Supports(req) {
			continue
		}

		attempt, payload := r.attempt(ctx, src, req)
		result.Attempts = append(result.Attempts, attempt)
		r.record(req, attempt)
		last = attempt.Outcome

		switch decide(attempt) {
		case Stop:
			d := src.Descriptor()
			result.Succeeded = true
			result.SourceName = d.Name
			result.Role = d.Role
			result.Payload = payload
			r.observeResolution(req, false)
			return result
		case Abort:
			r.observeResolution(req, true)
			return result
		}
	}

	if last == domain.OutcomeEmpty {
		result.Succeeded = true
		result.IsEmpty = true
	}
	r.observeResolution(req, true)
	return result
}

// attempt runs one fetch and extraction against src bounded by the source timeout
func (r *Resolver) attempt(ctx context.Context, src interfaces.Source, req domain.ResolutionRequest) (domain.Attempt, domain.Payload) {
	d := src.Descriptor()
	attempt := domain.Attempt{Source: d.Name}

	if err := ctx.Err(); err != nil {
		attempt.Outcome = domain.OutcomeCancelled
		attempt.Error = err.Error()
		return attempt, domain.Payload{}
	}

	start := time.Now()
	raw, err := fetchWithTimeout(ctx, src, req, d.Timeout)
	if err != nil {
		attempt.LatencyMs = time.Since(start).Milliseconds()
		attempt.Outcome = domain.OutcomeFailure
		if ctx.Err() != nil {
			attempt.Outcome = domain.OutcomeCancelled
		}
		attempt.Error = err.Error()
		return attempt, domain.Payload{}
	}

	payload, err := src.Extract(req, raw)
	attempt.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		if !coreerrors.IsExtraction(err) {
			err = &coreerrors.ExtractionError{Source: d.Name, Err: err}
		}
		attempt.Outcome = domain.OutcomeFailure
		attempt.Error = err.Error()
		return attempt, domain.Payload{}
	}

	if payload.Count() == 0 {
		attempt.Outcome = domain.OutcomeEmpty
		return attempt, domain.Payload{}
	}

	attempt.Outcome = domain.OutcomeSuccess
	return attempt, payload
}

type fetchResult struct {
	raw []byte
	err error
}

// fetchWithTimeout returns once the fetch completes or its deadline passes,
// whichever comes first. A source that ignores ctx keeps running in the
// background but its answer is discarded.
func fetchWithTimeout(ctx context.Context, src interfaces.Source, req domain.ResolutionRequest, timeout time.Duration) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fetchResult{err: fmt.Errorf("source panicked: %v", p)}
			}
		}()
		raw, err := src.Fetch(fetchCtx, req)
		done <- fetchResult{raw: raw, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && !coreerrors.IsTransport(res.err) {
			res.err = &coreerrors.TransportError{Source: src.Descriptor().Name, Err: res.err}
		}
		return res.raw, res.err
	case <-fetchCtx.Done():
		return nil, &coreerrors.TransportError{Source: src.Descriptor().Name, Err: fetchCtx.Err()}
	}
}

// record emits the per-attempt log line and metric
func (r *Resolver) record(req domain.ResolutionRequest, a domain.Attempt) {
	if r.deps.Metrics != nil {
		r.deps.Metrics.ObserveAttempt(a.Source, a.Outcome, time.Duration(a.LatencyMs)*time.Millisecond)
	}
	if r.deps.Logger == nil {
		return
	}

	fields := map[string]interface{}{
		"request_key": req.Fingerprint(),
		"source":      a.Source,
		"outcome":     string(a.Outcome),
		"latency_ms":  a.LatencyMs,
	}
	switch a.Outcome {
	case domain.OutcomeFailure:
		fields["error"] = a.Error
		r.deps.Logger.Warn("Source attempt failed", fields)
	case domain.OutcomeCancelled:
		r.deps.Logger.Debug("Source attempt cancelled", fields)
	default:
		r.deps.Logger.Info("Source attempt", fields)
	}
}

func (r *Resolver) observeResolution(req domain.ResolutionRequest, exhausted bool) {
	if r.deps.Metrics != nil {
		r.deps.Metrics.ObserveResolution(req.Kind(), exhausted)
	}
}
