package fetch

import "strings"

// MinValidBodyLength is the minimum body length accepted by the
// validator. Challenge interstitials and error stubs are almost always
// shorter than real pages; 500 bytes filters them cheaply before any
// pattern matching runs.
const MinValidBodyLength = 500

// VerdictReason classifies why a body was accepted or rejected.
type VerdictReason string

// Verdict reasons. The taxonomy is fixed; orchestration and tests
// switch on these values.
const (
	// ReasonOK means the body is usable markup.
	ReasonOK VerdictReason = "ok"
	// ReasonTooShort means the body is below MinValidBodyLength.
	ReasonTooShort VerdictReason = "too-short"
	// ReasonChallenge means an anti-bot challenge signature matched.
	ReasonChallenge VerdictReason = "challenge-pattern-matched"
	// ReasonNoMarkup means no structural document marker was found.
	ReasonNoMarkup VerdictReason = "no-structural-markup"
)

// Verdict is the validator's accept/reject decision.
type Verdict struct {
	// Accepted reports whether the body is usable.
	Accepted bool

	// Reason classifies the decision.
	Reason VerdictReason
}

// challengeSignatures are substrings that identify anti-bot challenge
// pages, CDN interstitials, and rate-limit stubs. Matching is
// case-insensitive. The Cloudflare markers come straight from pages
// observed in the field (cf-browser-verification and friends appear in
// the challenge script, not the visible text).
var challengeSignatures = []string{
	"checking your browser",
	"just a moment",
	"cf-browser-verification",
	"challenge-platform",
	"_cf_chl_opt",
	"attention required",
	"access denied",
	"rate limited",
	"too many requests",
	"verify you are human",
	"enable javascript and cookies",
	"ddos protection by",
}

// structuralMarkers are tag prefixes that any real HTML document
// contains at least one of. Bodies without any of them are JSON,
// plain text, or garbage, and cannot be audited.
var structuralMarkers = []string{
	"<html",
	"<head",
	"<body",
	"<div",
	"<article",
	"<main",
	"<section",
}

// Validate classifies a candidate body as usable markup or as a
// soft-block/challenge page. It is deterministic and has no side
// effects: identical input always yields an identical verdict.
func Validate(body string) Verdict {
	if len(body) < MinValidBodyLength {
		return Verdict{Accepted: false, Reason: ReasonTooShort}
	}

	lower := strings.ToLower(body)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return Verdict{Accepted: false, Reason: ReasonChallenge}
		}
	}

	for _, marker := range structuralMarkers {
		if strings.Contains(lower, marker) {
			return Verdict{Accepted: true, Reason: ReasonOK}
		}
	}

	return Verdict{Accepted: false, Reason: ReasonNoMarkup}
}
