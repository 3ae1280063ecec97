package stub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medication-tracker/internal/ports/medinfo"
)

const DefaultDelay = 1500 * time.Millisecond

const template = `**%s**

**Common uses:**
Typically prescribed to relieve the symptoms of the condition it was prescribed for.

**How to take it:**
- Follow your doctor's directions.
- Take it with or without food as instructed.
- Keep to the prescribed dose and schedule.

**Common side effects:**
- Mild headache
- Dizziness
- Mild stomach upset
- Dry mouth

**Warnings:**
- Do not stop taking it without talking to your doctor.
- Tell your doctor about any other medication you take.
- Avoid alcohol during treatment.
- Store in a cool, dry place.

**When to call your doctor:**
Right away if you notice severe or unusual side effects, or if you do not improve after the treatment period.`

// Lookup devuelve texto genérico tras un retardo artificial.
type Lookup struct {
	Delay time.Duration
}

func New(delay time.Duration) *Lookup {
	if delay < 0 {
		delay = 0
	}
	return &Lookup{Delay: delay}
}

func (l *Lookup) Describe(ctx context.Context, name string) (medinfo.Info, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return medinfo.Info{}, medinfo.ErrInvalidInput
	}

	if l.Delay > 0 {
		t := time.NewTimer(l.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return medinfo.Info{}, ctx.Err()
		case <-t.C:
		}
	}

	return medinfo.Info{
		Name:        name,
		Description: fmt.Sprintf(template, name),
		Source:      "stub",
	}, nil
}
