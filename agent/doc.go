// Package agent contains the model-backed role agents used by the reflection
// loop: a generator that drafts and revises an artifact and a critic that
// reviews the latest draft.
//
// Both are ModelAgent instances differing in Kind, default instruction and
// perspective handling:
//
//  1. Instructions are static text or computed from the history (Provider)
//     and rendered as templates with agent, messages, drafts and last
//  2. The critic swaps message roles so the draft under review reaches the
//     model as user input
//  3. Model failures are classified as core.ErrGeneration or core.ErrCritique
//
// Streaming is optional; partial chunks go to ModelAgentOptions.OnPartial
// while the loop only ever sees the final aggregated message.
package agent
