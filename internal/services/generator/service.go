package generator

import (
	"fmt"

	"github.com/mcoot/quizrace/internal/dependencies/random"
)

// Operand ranges per operator. Multiplication stays in times-table range
// so answers remain mental-arithmetic sized.
const (
	maxMultiplicationOperand = 12
	maxAdditiveOperand       = 50
)

// Generated is a freshly produced question: display text plus the
// expected numeric answer
type Generated struct {
	Text   string
	Answer int64
}

// Service produces arithmetic questions on demand
type Service struct {
	random random.Random
}

// New creates a new generator service
func New(rnd random.Random) *Service {
	return &Service{
		random: rnd,
	}
}

// Generate produces a random arithmetic question.
//
// The operator is chosen uniformly from {+, −, ×}; subtraction operands
// are ordered so the answer is never negative.
func (s *Service) Generate() Generated {
	switch s.random.Intn(3) {
	case 0:
		a := int64(s.random.Intn(maxAdditiveOperand) + 1)
		b := int64(s.random.Intn(maxAdditiveOperand) + 1)
		return Generated{
			Text:   fmt.Sprintf("%d + %d", a, b),
			Answer: a + b,
		}
	case 1:
		a := int64(s.random.Intn(maxAdditiveOperand) + 1)
		b := int64(s.random.Intn(maxAdditiveOperand) + 1)
		if b > a {
			a, b = b, a
		}
		return Generated{
			Text:   fmt.Sprintf("%d - %d", a, b),
			Answer: a - b,
		}
	default:
		a := int64(s.random.Intn(maxMultiplicationOperand) + 1)
		b := int64(s.random.Intn(maxMultiplicationOperand) + 1)
		return Generated{
			Text:   fmt.Sprintf("%d × %d", a, b),
			Answer: a * b,
		}
	}
}
