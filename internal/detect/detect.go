// Package detect hosts the demo's black-box detection services. They fake
// the work: a bounded random delay followed by a fabricated verdict. The
// rest of the application treats them as opaque asynchronous collaborators,
// which is exactly what they would be with a real model behind them.
package detect

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Result is a detection verdict.
type Result struct {
	IsAI       bool    `json:"isAI"`
	Confidence float64 `json:"confidence"`
	Details    string  `json:"details"`
}

// EmailResult extends Result with phishing-specific findings.
type EmailResult struct {
	Result
	Suspicious bool     `json:"suspicious"`
	RiskLevel  string   `json:"riskLevel"`
	Flags      []string `json:"flags"`
}

// RiskLevels in increasing severity.
var RiskLevels = []string{"low", "medium", "high", "critical"}

// PhishingFlags is the pool of indicators a fabricated email verdict draws
// from.
var PhishingFlags = []string{
	"Suspicious sender domain",
	"Urgent call-to-action language",
	"Request for sensitive information",
	"Mismatched link destinations",
	"Unusual grammar or spelling patterns",
	"Sense of urgency or threat",
	"Generic greetings",
	"Embedded suspicious links",
}

// Service produces fabricated verdicts. Delay bounds are fields so tests
// can zero them.
type Service struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

func NewService() *Service {
	return &Service{MinDelay: 1500 * time.Millisecond, MaxDelay: 3 * time.Second}
}

// AnalyzeImage fabricates a verdict for an image file.
func (s *Service) AnalyzeImage(ctx context.Context, fileName string) (*Result, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	r := s.verdict()
	r.Details = fmt.Sprintf("Analyzed pixel-level artifacts in %s", fileName)
	return r, nil
}

// AnalyzeVideo fabricates a verdict for a video file.
func (s *Service) AnalyzeVideo(ctx context.Context, fileName string) (*Result, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	r := s.verdict()
	r.Details = fmt.Sprintf("Analyzed frame consistency in %s", fileName)
	return r, nil
}

// AnalyzeText fabricates a verdict for a text sample.
func (s *Service) AnalyzeText(ctx context.Context, text string) (*Result, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	r := s.verdict()
	r.Details = fmt.Sprintf("Analyzed %d characters for stylistic patterns", len(text))
	return r, nil
}

// AnalyzeEmail fabricates a phishing verdict. Non-suspicious emails always
// come back with risk "low" and no flags.
func (s *Service) AnalyzeEmail(ctx context.Context, subject, sender string) (*EmailResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	suspicious := rand.Float64() > 0.6
	out := &EmailResult{
		Result:     *s.verdict(),
		Suspicious: suspicious,
		RiskLevel:  RiskLevels[0],
	}
	out.Details = fmt.Sprintf("Analyzed headers and body of %q from %s", subject, sender)

	if suspicious {
		// Anything but "low".
		out.RiskLevel = RiskLevels[rand.IntN(len(RiskLevels)-1)+1]
		n := rand.IntN(4) + 2
		for i := 0; i < n; i++ {
			out.Flags = append(out.Flags, PhishingFlags[rand.IntN(len(PhishingFlags))])
		}
	}
	return out, nil
}

// wait sleeps a random duration within the configured bounds, returning
// early if the context is canceled.
func (s *Service) wait(ctx context.Context) error {
	delay := s.MinDelay
	if s.MaxDelay > s.MinDelay {
		delay += rand.N(s.MaxDelay - s.MinDelay)
	}
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) verdict() *Result {
	return &Result{
		IsAI:       rand.Float64() > 0.55,
		Confidence: math.Round((70+rand.Float64()*25)*10) / 10,
	}
}
