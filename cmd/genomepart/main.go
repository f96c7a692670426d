// Command genomepart reduces a coordinate index to equal-volume partitions
// of a genome and writes them as a BED file, for use as a work-splitting
// step ahead of parallel processing of the underlying alignment file.
package main

import (
	"context"
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"

	"github.com/grailbio/genomepart/bedio"
	"github.com/grailbio/genomepart/coordindex"
	"github.com/grailbio/genomepart/ivl"
	"github.com/grailbio/genomepart/partition"
	"github.com/grailbio/genomepart/reduce"
	"github.com/grailbio/genomepart/refset"
	"github.com/grailbio/genomepart/region"
)

type partitionFlags struct {
	refPath       *string
	numGroups     *int
	strategy      *string
	batchVolume   *int
	includeRegion *string
	excludeRegion *string
	includeContig *string
	excludeContig *string
	bgzip         *bool
	namePattern   *string
	annotate      *bool
}

func newCmdPartition() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "partition",
		Short:    "Split a genome into N equal-volume partitions",
		ArgsName: "indexpath outpath",
	}
	flags := partitionFlags{
		refPath:       cmd.Flags.String("ref", "", "Path to a tab-delimited reference table (name\\tlength)"),
		numGroups:     cmd.Flags.Int("n", 1, "Number of partitions to produce"),
		strategy:      cmd.Flags.String("grouping", "consecutive", "Grouping strategy: none, consecutive, or round-robin"),
		batchVolume:   cmd.Flags.Int("batch-volume", 0, "Target volume per reduced interval before partitioning (0 = auto)"),
		includeRegion: cmd.Flags.String("region", "", "Comma-separated list of regions to include, e.g. chr1:100-200"),
		excludeRegion: cmd.Flags.String("exclude-region", "", "Comma-separated list of regions to exclude"),
		includeContig: cmd.Flags.String("contig", "", "Comma-separated list of contig patterns to include"),
		excludeContig: cmd.Flags.String("exclude-contig", "", "Comma-separated list of contig patterns to exclude"),
		bgzip:         cmd.Flags.Bool("bgzip", true, "gzip-compress the output BED file (one gzip stream, not BGZF blocks)"),
		namePattern:   cmd.Flags.String("name-pattern", "Partition_%g", "Name pattern for BED rows; %g and %r are the group/row number"),
		annotate:      cmd.Flags.Bool("annotate", false, "Add a column listing the lengths of the source intervals merged into each row"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("partition takes indexpath and outpath arguments, but got %v", argv)
		}
		return runPartition(flags, argv[0], argv[1])
	})
	return cmd
}

func runPartition(flags partitionFlags, indexPath, outPath string) error {
	if *flags.refPath == "" {
		return errors.E(errors.Invalid, "genomepart: -ref is required")
	}

	ctx := vcontext.Background()

	refFile, err := file.Open(ctx, *flags.refPath)
	if err != nil {
		return errors.E(errors.IO, err, "genomepart: opening reference table")
	}
	defer refFile.Close(ctx) // nolint: errcheck

	refs, err := refset.FromTSV(refFile.Reader(ctx))
	if err != nil {
		return err
	}

	idx, err := loadIndex(ctx, indexPath, refs)
	if err != nil {
		return err
	}

	log.Printf("genomepart: reducing index for %d references", refs.Len())
	reduced, err := reduce.Reduce(idx, reduce.Options{BatchVolume: *flags.batchVolume})
	if err != nil {
		return err
	}
	log.Debug.Printf("genomepart: reduced to %d intervals", len(reduced))

	regions, err := buildRegions(flags, refs)
	if err != nil {
		return err
	}

	strategy, err := parseStrategy(*flags.strategy)
	if err != nil {
		return err
	}

	groups, err := partition.Partition(reduced, *flags.numGroups, partition.Options{
		Strategy: strategy,
		Regions:  regions,
	})
	if err != nil {
		return err
	}
	log.Printf("genomepart: writing %d partitions to %s", len(groups), outPath)

	return writeGroups(ctx, groups, outPath, flags)
}

func loadIndex(ctx context.Context, indexPath string, refs *refset.Table) (coordindex.Index, error) {
	_ = ctx
	// Parsing a concrete on-disk coordinate index format is out of this
	// module's scope; callers are expected to supply a coordindex.Index.
	// No reader is linked into this CLI, so it always returns an error.
	return nil, errors.E(errors.Precondition,
		"genomepart: no coordinate index reader is registered; link in a coordindex.Index implementation for",
		indexPath, "against", refs.Len(), "references")
}

func buildRegions(flags partitionFlags, refs *refset.Table) (*region.Regions, error) {
	spec := region.Spec{
		IncludeRegions: splitNonEmpty(*flags.includeRegion),
		ExcludeRegions: splitNonEmpty(*flags.excludeRegion),
		IncludeContigs: splitNonEmpty(*flags.includeContig),
		ExcludeContigs: splitNonEmpty(*flags.excludeContig),
	}
	if len(spec.IncludeRegions) == 0 && len(spec.ExcludeRegions) == 0 &&
		len(spec.IncludeContigs) == 0 && len(spec.ExcludeContigs) == 0 {
		return nil, nil
	}
	return region.New(spec, refs, nil)
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func parseStrategy(s string) (partition.Strategy, error) {
	switch s {
	case "none":
		return partition.None, nil
	case "consecutive":
		return partition.Consecutive, nil
	case "round-robin":
		return partition.RoundRobin, nil
	default:
		return 0, errors.E(errors.Invalid, "genomepart: unknown -grouping value:", s)
	}
}

func writeGroups(ctx context.Context, groups [][]ivl.VolumeInterval, outPath string, flags partitionFlags) error {
	f, err := file.Create(ctx, outPath)
	if err != nil {
		return errors.E(errors.IO, err, "genomepart: creating output file")
	}
	defer f.Close(ctx) // nolint: errcheck

	opts := bedio.WriteOptions{
		NamePattern: *flags.namePattern,
		Bgzip:       *flags.bgzip,
	}
	if *flags.annotate {
		opts.Extra = bedio.ChildLengths
	}
	if err := bedio.WriteIntervals(f.Writer(ctx), groups, opts); err != nil {
		return err
	}
	if *flags.bgzip {
		if err := bedio.TabixIndex(outPath); err != nil {
			log.Error.Printf("genomepart: tabix indexing failed: %v", err)
		}
	}
	return nil
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(&cmdline.Command{
		Name:     "genomepart",
		Short:    "Partition a genome into equal-volume regions for parallel processing",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdPartition(),
		},
	})
}
