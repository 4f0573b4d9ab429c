package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/recipe-engagement/domain"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "conflict", Outcome(domain.ErrConflict))
	assert.Equal(t, "transient", Outcome(fmt.Errorf("%w: timeout", domain.ErrTransient)))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}
