// Package minting provisions identifiers that must be globally unique in a
// store the caller does not fully control. Candidates are checked
// optimistically; the store's unique constraint remains the backstop for the
// window between probe and insert.
package minting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ErrExhausted is returned when every attempt produced a taken candidate or
// a failed lookup.
var ErrExhausted = errors.New("identifier space exhausted")

const defaultMaxAttempts = 8

// Probe generates one candidate and reports whether it is free. A lookup
// failure counts the same as a collision: the attempt is spent and the next
// candidate is tried.
type Probe func(ctx context.Context) (candidate string, free bool, err error)

// ExistsFunc checks the store for a row holding the candidate value.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Minter runs a probe until it yields a free candidate or attempts run out.
type Minter struct {
	MaxAttempts int
	Logger      *slog.Logger
}

// Mint returns the first free candidate. Exhaustion returns ErrExhausted;
// there is no unbounded retry.
func (m Minter) Mint(ctx context.Context, probe Probe) (string, error) {
	attempts := m.maxAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate, free, err := probe(ctx)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("identifier probe failed",
					"event", "minting_probe_failed",
					"module", "internal/shared/minting",
					"layer", "shared",
					"attempt", attempt,
					"error", err.Error(),
				)
			}
			continue
		}
		if free {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

func (m Minter) maxAttempts() int {
	if m.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return m.MaxAttempts
}

// UUIDProbe proposes opaque random tokens.
func UUIDProbe(exists ExistsFunc) Probe {
	return func(ctx context.Context) (string, bool, error) {
		candidate := uuid.NewString()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", false, err
		}
		return candidate, !taken, nil
	}
}

// SlugProbe proposes a deterministic slug of base first, then the slug with
// a random numeric suffix. The suffix widens as attempts accumulate so that
// repeated collisions escalate into a larger candidate space.
func SlugProbe(base string, exists ExistsFunc) Probe {
	slug := Slugify(base)
	attempt := 0
	return func(ctx context.Context) (string, bool, error) {
		attempt++
		candidate := slug
		if attempt > 1 {
			width := 4
			if attempt > 4 {
				width = 8
			}
			candidate = fmt.Sprintf("%s-%0*d", slug, width, rand.Intn(pow10(width)))
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", false, err
		}
		return candidate, !taken, nil
	}
}

// Slugify lowercases base and collapses every non-alphanumeric run into a
// single hyphen.
func Slugify(base string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(base)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "project"
	}
	return slug
}

func pow10(width int) int {
	value := 1
	for i := 0; i < width; i++ {
		value *= 10
	}
	return value
}
