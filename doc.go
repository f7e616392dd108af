// Package colframe is an in-memory columnar table engine for Go.
//
// A frame stores named columns of independently chosen element types next to
// a shared row index that may hold duplicate or unordered keys. On top of the
// store colframe offers reindexing by any column (as a copy or as a zero-copy
// view), in-place retyping of a column, alignment of per-period summaries
// onto the full index, and bounded top-K selection.
//
// # Packages
//
//   - pkg/columnar: the Frame, its load surface and transformations, Arrow
//     and JSON export
//   - pkg/view: non-owning views over slices with random-access iterators
//   - pkg/topk: the bounded top-K selector
//   - pkg/visitors: N-largest, N-smallest and summary statistics over views
//   - pkg/randgen: random column generators
//   - pkg/config, pkg/logger, pkg/metrics, pkg/errors: configuration, zap
//     logging, Prometheus metrics and the typed error taxonomy
//
// # Quick Start
//
//	frame := columnar.NewFrame(columnar.WithLogger(logger.Get()))
//
//	err := columnar.LoadData(frame, []uint64{1, 2, 3, 4},
//		columnar.Col("price", []float64{12.5, 11, 13.25, 12}),
//		columnar.Col("volume", []int32{-1, 500, 700, 900}))
//
//	// copy with price as the index; the old index becomes OLD_IDX
//	byPrice, err := columnar.Reindex[float64](frame, "price", "OLD_IDX")
//
//	// same shape, aliasing frame's storage
//	view, err := columnar.ReindexView[float64](frame, "price", "OLD_IDX")
//
//	// int32(-1) becomes uint32(4294967295)
//	err = columnar.Retype[int32, uint32](frame, "volume")
//
//	top, err := visitors.NLargestColumn[float64](frame, "price", 2)
//
// # Command Line
//
// The colframe command builds a frame of generated data and runs one
// transformation on it:
//
//	colframe generate --rows 28 --seed 23
//	colframe reindex --column volume --view
//	colframe align --column price --stride 5 --anchor-end
//	colframe topk --column price -k 3 --print-metrics
//
// # Concurrency
//
// Frames and selectors are not safe for concurrent use. Every operation is
// synchronous and returns an error from pkg/errors on failure.
package colframe
