package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"reflect"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/colframe/colframe/internal/sample"
	"github.com/colframe/colframe/pkg/columnar"
	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/visitors"
)

const buildTimeout = 30 * time.Second

func (e *env) build(cmd *cobra.Command) (*columnar.Frame, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), buildTimeout)
	defer cancel()

	frame, err := sample.NewBuilder(e.cfg, e.log, e.collector).Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build sample frame: %w", err)
	}
	return frame, nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newGenerateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Print a generated frame as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := e.build(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), frame)
		},
	}
}

func newReindexCommand(e *env) *cobra.Command {
	var column, oldIndex string
	var asView, readOnly bool

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Make a column the index of the generated frame",
		Long: `Make a column the index of the generated frame. The old index is kept as a
column and every other column is truncated to the new row count.

Example:
  colframe reindex --column quotes --old-index OLD_INDEX --view`,
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := e.build(cmd)
			if err != nil {
				return err
			}
			typ, err := frame.ColumnType(column)
			if err != nil {
				return err
			}

			var result interface{}
			switch {
			case asView || readOnly:
				result, err = reindexView(frame, typ, column, oldIndex, readOnly)
			default:
				result, err = reindexCopy(frame, typ, column, oldIndex)
			}
			if err != nil {
				return err
			}
			e.log.Info("frame reindexed", zap.String("column", column), zap.Bool("view", asView || readOnly))
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&column, "column", sample.ColumnPrice, "Column that becomes the index")
	cmd.Flags().StringVar(&oldIndex, "old-index", "OLD_INDEX", "Column name for the previous index")
	cmd.Flags().BoolVar(&asView, "view", false, "Alias the frame instead of copying it")
	cmd.Flags().BoolVar(&readOnly, "const", false, "Alias the frame read-only (implies --view)")
	return cmd
}

func reindexCopy(f *columnar.Frame, typ reflect.Type, column, oldIndex string) (*columnar.Frame, error) {
	switch typ {
	case reflect.TypeFor[float64]():
		return columnar.Reindex[float64](f, column, oldIndex)
	case reflect.TypeFor[int32]():
		return columnar.Reindex[int32](f, column, oldIndex)
	case reflect.TypeFor[int64]():
		return columnar.Reindex[int64](f, column, oldIndex)
	case reflect.TypeFor[string]():
		return columnar.Reindex[string](f, column, oldIndex)
	case reflect.TypeFor[bool]():
		return columnar.Reindex[bool](f, column, oldIndex)
	default:
		return nil, unsupportedColumn(column, typ)
	}
}

func reindexView(f *columnar.Frame, typ reflect.Type, column, oldIndex string, readOnly bool) (*columnar.ViewFrame, error) {
	switch typ {
	case reflect.TypeFor[float64]():
		if readOnly {
			return columnar.ReindexConstView[float64](f, column, oldIndex)
		}
		return columnar.ReindexView[float64](f, column, oldIndex)
	case reflect.TypeFor[int32]():
		if readOnly {
			return columnar.ReindexConstView[int32](f, column, oldIndex)
		}
		return columnar.ReindexView[int32](f, column, oldIndex)
	case reflect.TypeFor[int64]():
		if readOnly {
			return columnar.ReindexConstView[int64](f, column, oldIndex)
		}
		return columnar.ReindexView[int64](f, column, oldIndex)
	case reflect.TypeFor[string]():
		if readOnly {
			return columnar.ReindexConstView[string](f, column, oldIndex)
		}
		return columnar.ReindexView[string](f, column, oldIndex)
	case reflect.TypeFor[bool]():
		if readOnly {
			return columnar.ReindexConstView[bool](f, column, oldIndex)
		}
		return columnar.ReindexView[bool](f, column, oldIndex)
	default:
		return nil, unsupportedColumn(column, typ)
	}
}

func newRetypeCommand(e *env) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "retype",
		Short: "Cast the int32 volume column to another numeric type",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := e.build(cmd)
			if err != nil {
				return err
			}
			before, err := columnar.GetColumn[int32](frame, sample.ColumnVolume)
			if err != nil {
				return err
			}
			before = append([]int32(nil), before...)

			switch target {
			case "uint32":
				err = columnar.Retype[int32, uint32](frame, sample.ColumnVolume)
			case "int64":
				err = columnar.Retype[int32, int64](frame, sample.ColumnVolume)
			case "float64":
				err = columnar.Retype[int32, float64](frame, sample.ColumnVolume)
			case "uint8":
				err = columnar.Retype[int32, uint8](frame, sample.ColumnVolume)
			default:
				err = errors.Newf(errors.ErrorTypeInvalidArgument, "unsupported target type %q", target)
			}
			if err != nil {
				return err
			}

			col, err := frame.Column(sample.ColumnVolume)
			if err != nil {
				return err
			}
			after := make([]interface{}, col.Len())
			for i := range after {
				after[i] = col.Get(i)
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"column": sample.ColumnVolume,
				"type":   col.Type().String(),
				"before": before,
				"after":  after,
			})
		},
	}

	cmd.Flags().StringVar(&target, "to", "uint32", "Target element type (uint32, int64, float64, uint8)")
	return cmd
}

func newAlignCommand(e *env) *cobra.Command {
	var column string
	var stride int
	var anchorEnd bool

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Average a column per period and align the averages to the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := e.build(cmd)
			if err != nil {
				return err
			}
			means, err := sample.PeriodMeans[float64](frame, column, stride)
			if err != nil {
				return err
			}
			name := column + "_period_mean"
			if err := columnar.LoadAlignColumn(frame, name, means, stride, !anchorEnd, math.NaN()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), frame)
		},
	}

	cmd.Flags().StringVar(&column, "column", sample.ColumnPrice, "Float column to summarize")
	cmd.Flags().IntVar(&stride, "stride", 5, "Rows per period")
	cmd.Flags().BoolVar(&anchorEnd, "anchor-end", false, "Place each summary after its period instead of at its start")
	return cmd
}

func newTopKCommand(e *env) *cobra.Command {
	var column string
	var k int
	var smallest bool

	cmd := &cobra.Command{
		Use:   "topk",
		Short: "Select the largest or smallest values of a column",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := e.build(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("k") {
				k = e.cfg.TopK.Capacity
			}

			var selected interface{}
			typ, err := frame.ColumnType(column)
			if err != nil {
				return err
			}
			switch typ {
			case reflect.TypeFor[float64]():
				selected, err = selectColumn[float64](frame, column, k, smallest)
			case reflect.TypeFor[int32]():
				selected, err = selectColumn[int32](frame, column, k, smallest)
			case reflect.TypeFor[int64]():
				selected, err = selectColumn[int64](frame, column, k, smallest)
			case reflect.TypeFor[string]():
				selected, err = selectColumn[string](frame, column, k, smallest)
			default:
				err = unsupportedColumn(column, typ)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"column":   column,
				"k":        k,
				"smallest": smallest,
				"values":   selected,
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", sample.ColumnPrice, "Column to select from")
	cmd.Flags().IntVarP(&k, "k", "k", 5, "Number of values to keep (defaults to topk.capacity)")
	cmd.Flags().BoolVar(&smallest, "smallest", false, "Keep the smallest values instead of the largest")
	return cmd
}

func selectColumn[T int32 | int64 | float64 | string](f *columnar.Frame, column string, k int, smallest bool) ([]T, error) {
	if smallest {
		return visitors.NSmallestColumn[T](f, column, k)
	}
	return visitors.NLargestColumn[T](f, column, k)
}

func newDescribeCommand(e *env) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize a numeric column",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := e.build(cmd)
			if err != nil {
				return err
			}
			typ, err := frame.ColumnType(column)
			if err != nil {
				return err
			}

			var s visitors.Summary
			switch typ {
			case reflect.TypeFor[float64]():
				s, err = visitors.DescribeColumn[float64](frame, column)
			case reflect.TypeFor[int32]():
				s, err = visitors.DescribeColumn[int32](frame, column)
			case reflect.TypeFor[int64]():
				s, err = visitors.DescribeColumn[int64](frame, column)
			default:
				err = unsupportedColumn(column, typ)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().StringVar(&column, "column", sample.ColumnPrice, "Column to summarize")
	return cmd
}

func newArrowCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "arrow",
		Short: "Export the generated frame as an Arrow record and print its schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := e.build(cmd)
			if err != nil {
				return err
			}
			record, err := columnar.ToArrow(frame, memory.NewGoAllocator())
			if err != nil {
				return err
			}
			defer record.Release()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, record.Schema().String())
			fmt.Fprintf(out, "rows: %d\n", record.NumRows())
			return nil
		},
	}
}

func unsupportedColumn(column string, typ reflect.Type) error {
	return errors.Newf(errors.ErrorTypeUnsupported, "column %q of type %v is not supported by this command", column, typ).
		WithDetail("column", column)
}
