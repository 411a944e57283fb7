package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := New(0) // default threshold
	roster := []string{"ravi", "sara"}

	name, score := r.Resolve("ravi", roster)
	assert.Equal(t, "ravi", name)
	assert.Equal(t, 100, score)

	// Close transcription noise still resolves.
	name, score = r.Resolve("ravvi", roster)
	assert.Equal(t, "ravi", name)
	assert.GreaterOrEqual(t, score, DefaultThreshold)

	// A distant fragment is not found, not degraded-matched.
	name, score = r.Resolve("xyz", roster)
	assert.Empty(t, name)
	assert.Less(t, score, DefaultThreshold)
}

func TestResolveEmptyInputs(t *testing.T) {
	r := New(80)

	name, score := r.Resolve("", []string{"ravi"})
	assert.Empty(t, name)
	assert.Zero(t, score)

	name, score = r.Resolve("ravi", nil)
	assert.Empty(t, name)
	assert.Zero(t, score)
}

func TestResolveAmbiguousTieIsRejected(t *testing.T) {
	r := New(80)

	// Both candidates score identically against the fragment; picking one
	// by list order would be a coin flip, so neither is returned.
	name, _ := r.Resolve("anna", []string{"anna maria", "anna sofia"})
	assert.Empty(t, name)
}

func TestResolveIsDeterministic(t *testing.T) {
	r := New(80)
	roster := []string{"ravi", "sara", "varshani"}

	firstName, firstScore := r.Resolve("varshni", roster)
	for i := 0; i < 10; i++ {
		name, score := r.Resolve("varshni", roster)
		assert.Equal(t, firstName, name)
		assert.Equal(t, firstScore, score)
	}
}

func TestResolveCustomThreshold(t *testing.T) {
	strict := New(100)
	name, _ := strict.Resolve("ravvi", []string{"ravi"})
	assert.Empty(t, name)

	exact, score := strict.Resolve("ravi", []string{"ravi"})
	assert.Equal(t, "ravi", exact)
	assert.Equal(t, 100, score)
}
