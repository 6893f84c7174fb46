// Command-line front end for the dermoscopy enhancement routines
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"dermoscopy-preprocessing/internal/algorithms"
	"dermoscopy-preprocessing/internal/config"
	"dermoscopy-preprocessing/internal/contrast"
	"dermoscopy-preprocessing/internal/core"
	imgio "dermoscopy-preprocessing/internal/io"
	"dermoscopy-preprocessing/internal/logging"
	"dermoscopy-preprocessing/internal/metrics"
)

const version = "1.0.0"

type env struct {
	cfg      config.Config
	logger   *logrus.Logger
	loader   *imgio.ImageLoader
	registry *algorithms.Registry
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	e := &env{registry: algorithms.NewRegistry()}

	app := &cli.App{
		Name:      "enhance",
		Usage:     "Contrast, brightness, sharpening and hair removal for dermoscopic images",
		Version:   version,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"ENHANCE_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.Bool("debug") {
				cfg.Log.Level = "debug"
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			logger.SetOutput(c.App.ErrWriter)

			e.cfg = cfg
			e.logger = logger
			e.loader = imgio.NewImageLoader(logger)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List routines and their parameters",
				Action:  e.list,
			},
			{
				Name:      "apply",
				Aliases:   []string{"a"},
				Usage:     "Run one routine on an image",
				ArgsUsage: "INPUT OUTPUT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "method",
						Aliases:  []string{"m"},
						Usage:    "Routine name, see list",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Parameter as key=value, repeatable",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "Print quality metrics of the result",
					},
				},
				Action: e.apply,
			},
			{
				Name:      "autocontrast",
				Usage:     "Automatic brightness and contrast by histogram clipping",
				ArgsUsage: "INPUT [OUTPUT]",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:        "clip",
						Usage:       "Percentage of pixels clipped across both tails",
						DefaultText: "from config",
					},
				},
				Action: e.autocontrast,
			},
			{
				Name:      "histogram",
				Usage:     "Print the grayscale histogram and the clip range; exits non-zero when no range can be computed",
				ArgsUsage: "INPUT",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:        "clip",
						Usage:       "Clip percentage used for the reported range",
						DefaultText: "from config",
					},
				},
				Action: e.histogram,
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))
	return app
}

func (e *env) list(c *cli.Context) error {
	w := c.App.Writer
	byCategory := e.registry.GetAlgorithmsByCategory()

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(w, "%s:\n", category)
		names := byCategory[category]
		sort.Strings(names)
		for _, name := range names {
			algorithm, _ := e.registry.Get(name)
			fmt.Fprintf(w, "  %-32s %s\n", name, algorithm.GetDescription())
			for _, p := range algorithm.GetParameterInfo() {
				fmt.Fprintf(w, "      %s\n", describeParameter(p))
			}
		}
	}
	return nil
}

func describeParameter(p algorithms.ParameterInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, default %v", p.Name, p.Type, p.Default)
	if p.Min != nil && p.Max != nil {
		fmt.Fprintf(&b, ", %v..%v", p.Min, p.Max)
	}
	b.WriteString(")")
	if p.Description != "" {
		b.WriteString(" ")
		b.WriteString(p.Description)
	}
	return b.String()
}

func (e *env) apply(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("apply needs INPUT and OUTPUT", 1)
	}
	input, output := c.Args().Get(0), c.Args().Get(1)
	name := c.String("method")

	algorithm, ok := e.registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: unknown method %q", core.ErrInvalidParameter, name)
	}

	params := e.cfg.Overrides(name)
	parsed, err := algorithms.ParseParams(algorithm, c.StringSlice("param"))
	if err != nil {
		return err
	}
	for k, v := range parsed {
		params[k] = v
	}

	src, err := core.Resolve(core.FilePath(input), e.loader)
	if err != nil {
		return err
	}
	defer src.Close()

	log := e.logger.WithFields(logrus.Fields{"method": name, "input": input})
	log.WithField("params", params).Debug("Applying routine")

	result, err := e.registry.Apply(name, src, params)
	if err != nil {
		log.WithError(err).Error("Routine failed")
		return err
	}
	defer result.Close()

	if err := e.loader.SaveImage(result.Image, output); err != nil {
		return err
	}
	log.WithField("output", output).Info("Result written")

	w := c.App.Writer
	for _, key := range sortedKeys(result.Details) {
		fmt.Fprintf(w, "%s: %v\n", key, result.Details[key])
	}

	if c.Bool("metrics") {
		printMetrics(w, metrics.NewEvaluator().CalculateAll(src, result.Image))
	}
	return nil
}

func (e *env) clipPercent(c *cli.Context) float64 {
	if c.IsSet("clip") {
		return c.Float64("clip")
	}
	return e.cfg.Defaults.ClipPercent
}

func (e *env) autocontrast(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return cli.Exit("autocontrast needs INPUT and an optional OUTPUT", 1)
	}
	input := c.Args().Get(0)

	src, err := core.Resolve(core.FilePath(input), e.loader)
	if err != nil {
		return err
	}
	defer src.Close()

	res, err := contrast.AutoBrightnessContrast(src, e.clipPercent(c))
	if err != nil {
		e.logger.WithError(err).WithField("input", input).Error("Automatic contrast failed")
		return err
	}
	defer res.Image.Close()

	w := c.App.Writer
	fmt.Fprintf(w, "alpha: %.6f\n", res.Params.Alpha)
	fmt.Fprintf(w, "beta: %.6f\n", res.Params.Beta)
	fmt.Fprintf(w, "min_gray: %d\n", res.Range.MinGray)
	fmt.Fprintf(w, "max_gray: %d\n", res.Range.MaxGray)

	if c.NArg() == 2 {
		return e.loader.SaveImage(res.Image, c.Args().Get(1))
	}
	return nil
}

func (e *env) histogram(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("histogram needs INPUT", 1)
	}

	src, err := core.Resolve(core.FilePath(c.Args().First()), e.loader)
	if err != nil {
		return err
	}
	defer src.Close()

	hist, err := contrast.GrayHistogram(src)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for level, count := range hist {
		fmt.Fprintf(w, "%3d %d\n", level, count)
	}

	p := e.clipPercent(c)
	params, r, err := contrast.ComputeRescale(hist, p)
	if err != nil {
		return fmt.Errorf("clip %.2f%%: %w", p, err)
	}
	fmt.Fprintf(w, "clip %.2f%%: min_gray %d, max_gray %d, alpha %.6f, beta %.6f\n",
		p, r.MinGray, r.MaxGray, params.Alpha, params.Beta)
	return nil
}

func printMetrics(w io.Writer, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %.4f\n", name, values[name])
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
