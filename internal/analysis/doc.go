// Package analysis inspects the per-step series a run records.
//
// [PowerSpectrum] and [Dominant] look for periodic behaviour, such as a fountain
// whose pair count rises and falls as bodies are recycled. [Settle] finds the step
// after which a series stays within a tolerance band of its final value.
package analysis
