package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/neuralspace/internal/blog"
	"github.com/2beens/neuralspace/internal/pages"
	"github.com/2beens/neuralspace/internal/project"
	"github.com/2beens/neuralspace/internal/seed"
)

var pagesOnly bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert default pages and sample content that is missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		seeder := seed.NewSeeder(
			pages.NewRepo(pool),
			project.NewRepo(pool),
			blog.NewRepo(pool),
			rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		)

		report, err := seeder.Pages(cmd.Context())
		if err != nil {
			return err
		}
		if !pagesOnly {
			contentReport, err := seeder.Content(cmd.Context())
			if err != nil {
				return err
			}
			report.ProjectsCreated = contentReport.ProjectsCreated
			report.BlogsCreated = contentReport.BlogsCreated
			report.Skipped += contentReport.Skipped
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), report)
		return err
	},
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List content 3D positions and their bounding box",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		projects, err := project.NewRepo(pool).All(cmd.Context())
		if err != nil {
			return err
		}
		blogs, err := blog.NewRepo(pool).All(cmd.Context())
		if err != nil {
			return err
		}
		return printPositions(cmd.OutOrStdout(), projects, blogs)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&pagesOnly, "pages-only", false, "only seed the static pages")
}

func printPositions(out io.Writer, projects []*project.Project, blogs []*blog.Blog) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSLUG\tX\tY\tZ")

	points := make([]seed.Point, 0, len(projects)+len(blogs))
	for _, p := range projects {
		fmt.Fprintf(tw, "project\t%s\t%.2f\t%.2f\t%.2f\n", p.Slug, p.PositionX, p.PositionY, p.PositionZ)
		points = append(points, seed.Point{X: p.PositionX, Y: p.PositionY, Z: p.PositionZ})
	}
	for _, b := range blogs {
		fmt.Fprintf(tw, "blog\t%s\t%.2f\t%.2f\t%.2f\n", b.Slug, b.PositionX, b.PositionY, b.PositionZ)
		points = append(points, seed.Point{X: b.PositionX, Y: b.PositionY, Z: b.PositionZ})
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(points) == 0 {
		_, err := fmt.Fprintln(out, "no content")
		return err
	}

	lo, hi := seed.Bounds(points)
	_, err := fmt.Fprintf(out,
		"%d projects, %d blogs\nbounds: x [%.2f, %.2f] y [%.2f, %.2f] z [%.2f, %.2f]\n",
		len(projects), len(blogs), lo.X, hi.X, lo.Y, hi.Y, lo.Z, hi.Z,
	)
	return err
}
