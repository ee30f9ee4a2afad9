// Command voxeltomo builds the model-space discretization of a seismic
// tomography inversion: radial layer files, voxel files designed from
// raypath coverage or explicit ranges, and the ordered unknown-parameter
// files whose line order fixes the column indices of the inversion matrix.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"voxeltomo/internal/models"
	"voxeltomo/pkg/config"
	"voxeltomo/pkg/design"
	"voxeltomo/pkg/params"
	"voxeltomo/pkg/voxel"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	root := &cobra.Command{
		Use:           "voxeltomo",
		Short:         "Voxel discretization and unknown-parameter bookkeeping for seismic tomography",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			log.SetOutput(os.Stderr)
			if cfg.Output.Verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "voxeltomo.yml", "configuration file")

	root.AddCommand(layersCommand())
	root.AddCommand(designCommand())
	root.AddCommand(paramsCommand())
	root.AddCommand(knownCommand())
	root.AddCommand(initCommand())

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func layersCommand() *cobra.Command {
	var (
		borders string
		lower   float64
		upper   float64
		dRadius float64
		output  string
	)
	cmd := &cobra.Command{
		Use:   "layers",
		Short: "Write a radial layer file from explicit borders or a uniform range",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				layers *voxel.LayerFile
				err    error
			)
			switch {
			case borders != "":
				values, perr := parseFloatList(borders)
				if perr != nil {
					return fmt.Errorf("invalid --borders: %w", perr)
				}
				layers, err = voxel.NewLayerFileFromBorders(values)
			case dRadius > 0:
				layers, err = voxel.NewUniformLayerFile(lower, upper, dRadius)
			default:
				return fmt.Errorf("either --borders or --lower/--upper/--dr is required")
			}
			if err != nil {
				return err
			}
			return layers.Write(output)
		},
	}
	cmd.Flags().StringVar(&borders, "borders", "", "comma-separated layer borders in km, e.g. 3480,3530,3580")
	cmd.Flags().Float64Var(&lower, "lower", 0, "lower radius of a uniform layer range in km")
	cmd.Flags().Float64Var(&upper, "upper", 0, "upper radius of a uniform layer range in km")
	cmd.Flags().Float64Var(&dRadius, "dr", 0, "layer thickness of a uniform layer range in km")
	cmd.Flags().StringVarP(&output, "output", "o", "layers.inf", "output layer file")
	return cmd
}

func designCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design the horizontal pixels of a voxel file",
	}
	cmd.AddCommand(designAutoCommand())
	cmd.AddCommand(designManualCommand())
	return cmd
}

func designAutoCommand() *cobra.Command {
	var (
		entriesPath  string
		segmentsPath string
		layersPath   string
		output       string
	)
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Design pixels covering the raypath sampling of a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := design.ReadDataEntries(entriesPath)
			if err != nil {
				return err
			}
			tracer, err := design.ReadSegmentFile(segmentsPath)
			if err != nil {
				return err
			}
			designer, err := design.NewAutoDesigner(cfg.DesignSettings(), tracer)
			if err != nil {
				return err
			}
			pixels, err := designer.Design(entries)
			if err != nil {
				return err
			}
			return makeVoxelFile(layersPath, pixels, output)
		},
	}
	cmd.Flags().StringVar(&entriesPath, "entries", "", "dataset file of event/observer entries")
	cmd.Flags().StringVar(&segmentsPath, "segments", "", "pierce-point table exported by the ray tracer")
	cmd.Flags().StringVar(&layersPath, "layers", "", "layer file defining the radial discretization")
	cmd.Flags().StringVarP(&output, "output", "o", "voxel.inf", "output voxel file")
	for _, flag := range []string{"entries", "segments", "layers"} {
		cobra.CheckErr(cmd.MarkFlagRequired(flag))
	}
	return cmd
}

func designManualCommand() *cobra.Command {
	var (
		layersPath string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Design pixels tiling the configured latitude/longitude ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			designer, err := design.NewManualDesigner(cfg.DesignSettings(), cfg.ManualRanges())
			if err != nil {
				return err
			}
			pixels, err := designer.Design()
			if err != nil {
				return err
			}
			return makeVoxelFile(layersPath, pixels, output)
		},
	}
	cmd.Flags().StringVar(&layersPath, "layers", "", "layer file defining the radial discretization")
	cmd.Flags().StringVarP(&output, "output", "o", "voxel.inf", "output voxel file")
	cobra.CheckErr(cmd.MarkFlagRequired("layers"))
	return cmd
}

func makeVoxelFile(layersPath string, pixels []models.HorizontalPixel, output string) error {
	layers, err := voxel.ReadLayerFile(layersPath)
	if err != nil {
		return err
	}
	maker, err := design.NewFileMaker(layers)
	if err != nil {
		return err
	}
	_, err = maker.Make(pixels, output)
	return err
}

func paramsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Build and check unknown-parameter files",
	}
	cmd.AddCommand(paramsMakeCommand())
	cmd.AddCommand(paramsCheckCommand())
	return cmd
}

func paramsMakeCommand() *cobra.Command {
	var (
		voxelPath string
		variables []string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "make",
		Short: "Expand a voxel file into an ordered unknown-parameter file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(variables) == 0 {
				variables = cfg.Params.Variables
			}
			types := make([]params.VariableType, len(variables))
			for i, name := range variables {
				v, err := params.ParseVariableType(name)
				if err != nil {
					return err
				}
				types[i] = v
			}
			v, err := voxel.ReadVoxelFile(voxelPath)
			if err != nil {
				return err
			}
			unknowns, err := params.FromVoxelFile(v, types)
			if err != nil {
				return err
			}
			return params.WriteUnknownParameterFile(output, unknowns)
		},
	}
	cmd.Flags().StringVar(&voxelPath, "voxel", "", "voxel file to expand")
	cmd.Flags().StringSliceVar(&variables, "variables", nil, "variable types per voxel, e.g. MU,LAMBDA (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "unknowns.inf", "output unknown-parameter file")
	cobra.CheckErr(cmd.MarkFlagRequired("voxel"))
	return cmd
}

func paramsCheckCommand() *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Read an unknown-parameter file, reporting duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readOptionsFromConfig(catalogPath)
			if err != nil {
				return err
			}
			unknowns, err := params.ReadUnknownParameterFile(args[0], opts)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"path": args[0], "parameters": len(unknowns)}).
				Info("parameter file ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "event catalog resolving SOURCE hypocenters")
	return cmd
}

func knownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "known",
		Short: "Work with known-parameter (answer) files",
	}
	cmd.AddCommand(knownZipCommand())
	return cmd
}

func knownZipCommand() *cobra.Command {
	var (
		paramsPath  string
		valuesPath  string
		catalogPath string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "zip",
		Short: "Pair an unknown-parameter file with a value vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readOptionsFromConfig(catalogPath)
			if err != nil {
				return err
			}
			unknowns, err := params.ReadUnknownParameterFile(paramsPath, opts)
			if err != nil {
				return err
			}
			values, err := readValueVector(valuesPath)
			if err != nil {
				return err
			}
			known, err := params.ZipKnown(unknowns, values)
			if err != nil {
				return err
			}
			return params.WriteKnownParameterFile(output, known)
		},
	}
	cmd.Flags().StringVar(&paramsPath, "params", "", "unknown-parameter file")
	cmd.Flags().StringVar(&valuesPath, "values", "", "value vector file, one value per line")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "event catalog resolving SOURCE hypocenters")
	cmd.Flags().StringVarP(&output, "output", "o", "known.inf", "output known-parameter file")
	for _, flag := range []string{"params", "values"} {
		cobra.CheckErr(cmd.MarkFlagRequired(flag))
	}
	return cmd
}

func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.CreateDefaultConfigFile(configPath)
		},
	}
}

func readOptionsFromConfig(catalogPath string) (params.ReadOptions, error) {
	opts := params.ReadOptions{Strict: cfg.Params.StrictDuplicates}
	if catalogPath != "" {
		catalog, err := params.ReadEventCatalog(catalogPath)
		if err != nil {
			return params.ReadOptions{}, err
		}
		opts.Catalog = catalog
	}
	return opts, nil
}

func readValueVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: value %q: %w", path, line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
