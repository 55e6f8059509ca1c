// Package roi joins the influencer, tracking and payout tables into the
// campaign performance, influencer insights and payout tracking views.
//
// Every function here is pure: it reads a *domain.Dataset, never mutates
// it, performs no I/O and never returns an error. Missing keys degrade to
// nil fields and a zero ROAS instead of failing the pipeline.
package roi
