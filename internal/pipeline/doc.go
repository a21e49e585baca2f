// Package pipeline composes the audit stages into an ordered sequence
// of steps: acquire markup, extract facts, score them, and generate
// recommendations. A batch processor runs independent audits with
// bounded concurrency.
package pipeline
