package runner

import (
	"math/rand"
	"sync"
	"time"

	"github.com/linskybing/gpuaas-go/internal/domain/job"
)

const simulatedFailureMessage = "Simulated GPU failure"

// RandomResolver resolves runs stochastically: 80% COMPLETED, 20% FAILED.
// Placeholder for a real compute backend's result.
type RandomResolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomResolver() *RandomResolver {
	return &RandomResolver{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *RandomResolver) Resolve(req StartRequest) Outcome {
	r.mu.Lock()
	v := r.rng.Float64()
	r.mu.Unlock()

	if v < 0.8 {
		return Outcome{Status: job.StatusCompleted}
	}
	return Outcome{Status: job.StatusFailed, ErrorMessage: simulatedFailureMessage}
}
