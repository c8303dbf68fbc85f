package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// TrackingPrefix is the public prefix on contract tracking IDs.
const TrackingPrefix = "ISOKO"

// Generator produces the external identifiers handed to buyers and payment
// rails. Injected so tests can pin deterministic values.
type Generator interface {
	// TrackingID returns a short public handle, e.g. "ISOKO-482913".
	TrackingID() string
	// Reference returns a prefixed opaque reference, e.g. "ESC-9f1c…".
	Reference(prefix string) string
}

type generator struct{}

// New returns the production random generator.
func New() Generator {
	return generator{}
}

func (generator) TrackingID() string {
	return fmt.Sprintf("%s-%06d", TrackingPrefix, randomInt(1000000))
}

func (generator) Reference(prefix string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, token)
}

func randomInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		// crypto/rand failure leaves no safe fallback for an external id.
		panic(fmt.Sprintf("idgen: crypto source unavailable: %v", err))
	}
	return n.Int64()
}

// Sequential is a deterministic Generator for tests.
type Sequential struct {
	next int
}

// NewSequential returns a Generator that counts up from 1.
func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) TrackingID() string {
	s.next++
	return fmt.Sprintf("%s-%06d", TrackingPrefix, s.next)
}

func (s *Sequential) Reference(prefix string) string {
	s.next++
	return fmt.Sprintf("%s-%06d", prefix, s.next)
}
