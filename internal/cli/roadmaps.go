package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/render"
	"github.com/matzehuels/waymark/pkg/roadmap"
	"github.com/matzehuels/waymark/pkg/service"
)

// =============================================================================
// list
// =============================================================================

func (c *CLI) listCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List roadmaps, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			views, err := a.svc.Search(ctx, a.sess, query)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				printInfo("No roadmaps match %q", query)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), roadmapTable(views))
			printNextStep("Open one", appName+" show <id>")
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by title or tag")
	return cmd
}

// =============================================================================
// show
// =============================================================================

// showOpts holds the command-line flags for the show command.
type showOpts struct {
	expand    string  // comma-separated node IDs to expand
	expandAll bool    // expand every node with children
	format    string  // diagram format; empty prints the outline only
	output    string  // output file; stdout when empty
	theme     string  // svg palette: dark, light
	detailed  bool    // include descriptions in DOT labels
	scale     float64 // png scale factor
	comments  bool    // print the comment thread
	refresh   bool    // bypass cached diagrams
}

func (c *CLI) showCommand() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a roadmap and optionally render its diagram",
		Long: `Show a roadmap's details and step outline.

Only top-level steps are visible at first. Use --expand to open steps by ID,
or --expand-all to open everything. With --format or --output the visible
tree is rendered as a diagram (svg, json, dot, graph, pdf, png).`,
		Example: `  waymark show 4
  waymark show 4 --expand j1,j1.1
  waymark show 4 --expand-all -o roadmap.svg
  waymark show 4 -f dot --detailed`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRoadmapIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			if opts.format != "" {
				if err := render.ValidateFormat(opts.format); err != nil {
					return err
				}
			}
			return c.runShow(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.expand, "expand", "e", "", "node IDs to expand (comma-separated)")
	cmd.Flags().BoolVar(&opts.expandAll, "expand-all", false, "expand every step")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "diagram format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the diagram to a file")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "svg theme: dark (default), light")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include step descriptions (dot)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "png scale factor")
	cmd.Flags().BoolVar(&opts.comments, "comments", false, "print the comments")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached diagrams")

	return cmd
}

func (c *CLI) runShow(cmd *cobra.Command, id string, opts showOpts) error {
	ctx := cmd.Context()
	a, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.svc.Get(ctx, a.sess, id)
	if err != nil {
		return err
	}

	exp := layout.ParseExpanded(opts.expand)
	if opts.expandAll {
		exp = layout.NewExpanded(v.ExpandableIDs()...)
	}

	// Diagram to stdout replaces the human-readable view.
	if opts.format != "" && opts.output == "" {
		res, err := a.svc.Diagram(ctx, id, diagramRequest(exp, opts))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(res.Artifact)
		return err
	}

	out := cmd.OutOrStdout()
	printRoadmapHeader(out, v)
	fmt.Fprintln(out)
	fmt.Fprint(out, treeOutline(v.Nodes, exp))

	if opts.comments {
		fmt.Fprintln(out)
		printComments(out, v.Comments)
	}

	if opts.output == "" {
		if exp.Len() == 0 && len(v.ExpandableIDs()) > 0 {
			printNewline()
			printNextStep("Expand a step", fmt.Sprintf("%s show %s --expand %s", appName, id, v.ExpandableIDs()[0]))
		}
		return nil
	}

	prog := newProgress(loggerFromContext(ctx))
	res, err := a.svc.Diagram(ctx, id, diagramRequest(exp, opts))
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done(fmt.Sprintf("Rendered roadmap %s", id))

	printNewline()
	printSuccess("Diagram written")
	printFile(opts.output)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.RenderHit)
	return nil
}

func diagramRequest(exp layout.Expanded, opts showOpts) service.DiagramRequest {
	return service.DiagramRequest{
		Expanded: exp,
		Format:   opts.format,
		Theme:    opts.theme,
		Detailed: opts.detailed,
		Scale:    opts.scale,
		Refresh:  opts.refresh,
	}
}

// formatFromPath infers the diagram format from a file extension, falling
// back to svg.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case render.FormatJSON, render.FormatDOT, render.FormatPDF, render.FormatPNG:
		return ext
	case "gv":
		return render.FormatDOT
	}
	return render.FormatSVG
}

// =============================================================================
// create
// =============================================================================

func (c *CLI) createCommand() *cobra.Command {
	var (
		in    service.CreateInput
		steps []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a roadmap (requires login)",
		Long: `Create a roadmap from a list of steps.

Each --step is "title|description|parent". Description and parent are
optional. Parent is the 1-based position of an earlier step to nest under;
omit it or use 0 for a top-level step.`,
		Example: `  waymark create --title "Go Basics" --tag go \
    --step "Syntax|Variables and types" \
    --step "Functions||1" \
    --step "Concurrency|Goroutines and channels"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseSteps(steps)
			if err != nil {
				return err
			}
			in.Steps = parsed

			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.svc.Create(ctx, a.sess, in)
			if err != nil {
				return err
			}

			printSuccess("Created %s", StyleHighlight.Render(r.Title))
			printKeyValue("ID", r.ID)
			printKeyValue("Steps", strconv.Itoa(r.CountNodes()))
			a.warnVolatile()
			printNextStep("View it", fmt.Sprintf("%s show %s --expand-all", appName, r.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "roadmap title")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "roadmap description")
	cmd.Flags().StringSliceVar(&in.Tags, "tag", nil, "tag (repeatable or comma-separated)")
	cmd.Flags().StringArrayVarP(&steps, "step", "s", nil, `step as "title|description|parent" (repeatable)`)

	return cmd
}

// parseSteps parses --step values into form rows.
func parseSteps(raw []string) ([]roadmap.Step, error) {
	steps := make([]roadmap.Step, 0, len(raw))
	for i, s := range raw {
		parts := strings.SplitN(s, "|", 3)
		step := roadmap.Step{Title: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			step.Description = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
			p, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil {
				return nil, errs.New(errs.ErrCodeInvalidStep, "step %d: parent must be a step number, got %q", i+1, parts[2])
			}
			step.Parent = p
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// =============================================================================
// comment
// =============================================================================

func (c *CLI) commentCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "comment <id> <text>...",
		Short:             "Comment on a roadmap (requires login)",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: c.completeRoadmapIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cm, err := a.svc.Comment(ctx, a.sess, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			printSuccess("Comment posted as @%s", cm.Username)
			a.warnVolatile()
			return nil
		},
	}
}

// =============================================================================
// like
// =============================================================================

func (c *CLI) likeCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "like <id>",
		Short:             "Toggle your like on a roadmap",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRoadmapIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			state, err := a.svc.ToggleLike(ctx, a.sess, args[0])
			if err != nil {
				return err
			}
			if state.Liked {
				printSuccess("Liked %s (%s)", args[0], likeLabel(true, state.Count))
			} else {
				printInfo("Unliked %s (%s)", args[0], likeLabel(false, state.Count))
			}
			return nil
		},
	}
}

// =============================================================================
// profile
// =============================================================================

func (c *CLI) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [username]",
		Short: "Show your roadmaps, or another user's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var p *service.Profile
			if len(args) == 1 {
				u, err := a.svc.Repo().UserByUsername(ctx, strings.TrimPrefix(args[0], "@"))
				if err != nil {
					return err
				}
				p, err = a.svc.ProfileOf(ctx, a.sess, u.ID)
				if err != nil {
					return err
				}
			} else {
				p, err = spin(ctx, cmd.ErrOrStderr(), "Loading profile...", func(ctx context.Context) (*service.Profile, error) {
					return a.svc.Profile(ctx, a.sess)
				})
				if err != nil {
					return err
				}
			}

			fmt.Println(StyleTitle.Render("@" + p.User.Username))
			printDetail("%d roadmaps", p.Count)
			if p.Count > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), roadmapTable(p.Roadmaps))
			}
			return nil
		},
	}
}
