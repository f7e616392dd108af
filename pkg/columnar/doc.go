// Package columnar implements colframe's in-memory columnar table, the Frame.
//
// # Overview
//
// A Frame owns a row index and any number of named columns. Each column has
// its own element type and its own length; the index may contain duplicate or
// unordered keys. Typed access checks the stored element type and fails with
// a type_mismatch error instead of converting.
//
// On top of the store the package provides three transformations:
//
//   - Reindex / ReindexView / ReindexConstView promote a column to be the
//     index, move the old index to a named column, and truncate the other
//     columns to the new row count. The view variants copy nothing.
//   - Retype / RetypeFunc change the element type of one column in place.
//   - LoadAlignColumn scatters one value per period onto the full index.
//
// # Usage Example
//
//	frame := columnar.NewFrame(columnar.WithLogger(logger.Get()))
//
//	err := columnar.LoadData(frame, []uint64{1, 2, 3, 4},
//		columnar.Col("price", []float64{10, 11, 12, 13}),
//		columnar.Col("volume", []int32{-1, 5, 7, 9}))
//
//	byPrice, err := columnar.Reindex[float64](frame, "price", "OLD_IDX")
//	err = columnar.Retype[int32, uint32](frame, "volume")
//	err = columnar.LoadAlignColumn(frame, "weekly", []float64{100}, 2, true, math.NaN())
//
// # Aliasing
//
// GetColumn and the ViewFrame accessors hand out the frame's own storage.
// Writes through them are visible to the frame and every other alias. Such
// handles are valid only while the frame does not replace the column (Retype,
// LoadColumn, LoadAlignColumn with the same name, RemoveColumn) or reload its
// index. A handle kept across such a change keeps reading the old storage and
// no longer observes the frame. Nothing here detects that; see view.Bind for
// a view that can.
//
// # Concurrency
//
// Frames are not safe for concurrent use. All operations are synchronous.
package columnar
