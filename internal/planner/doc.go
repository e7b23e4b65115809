// Package planner turns a conversion request and a probed dataset into a
// FilePlan: the output driver, pixel type, numeric output range, band list
// and per-band linear scale parameters handed to the translate step.
//
// Files:
//   - types.go:   FilePlan, Request, ScaleParam
//   - resolve.go: ResolveType, ResolveRange, SelectBands
//   - scale.go:   BuildScaleParams
//   - planner.go: BuildPlan
package planner
