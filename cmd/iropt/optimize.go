// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"iropt/core"
	"iropt/logger"
	"iropt/module"
	"iropt/optimizer"
	"iropt/pass"
	"iropt/tools"
)

const cpuFactor = 2

var optimizeCmd = cobra.Command{
	Use:   "opt [flags] <input>...",
	Short: "Runs a pass pipeline over the input modules",
	Args:  IsArgsn,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		env, err := pipelineEnv(p, cmd.Flags().Changed("env"))
		if err != nil {
			return err
		}
		return Optimize(context.Background(), p, env, args)
	},

	DisableFlagsInUseLine: true,
}

var optimizeFlags struct {
	passes      []string
	config      string
	verify      bool
	checkStatus bool
	skipNop     bool
	printDiff   bool
	stats       bool
	text        bool
	jobs        uint
}

var passesCmd = cobra.Command{
	Use:   "passes",
	Short: "Lists the available passes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, n := range pass.Names() {
			logger.Printf("  %-26s %s\n", n, pass.Help(n))
		}
	},
}

func initOptimize() {
	rootCmd.AddCommand(&optimizeCmd)
	rootCmd.AddCommand(&passesCmd)
	flags := optimizeCmd.Flags()
	flags.StringArrayVarP(&optimizeFlags.passes, "pass", "p", nil,
		"append a pass, given as name[:arg,...] (passes: "+strings.Join(pass.Names(), ", ")+")")
	flags.StringVarP(&optimizeFlags.config, "config", "c", "", "pipeline file (.yaml|.yml|.toml)")
	flags.BoolVar(&optimizeFlags.verify, "verify", false, "validate the module after every pass")
	flags.BoolVar(&optimizeFlags.checkStatus, "check-status", false, "check the status reported by every pass")
	addSkipNopFlag(flags, &optimizeFlags.skipNop, "output")
	flags.BoolVar(&optimizeFlags.printDiff, "print-diff", false, "print the changes made by the pipeline")
	flags.BoolVar(&optimizeFlags.stats, "stats", false, "print pass counts and timings")
	flags.BoolVar(&optimizeFlags.text, "text", false, "write text even for binary inputs")
	flags.UintVarP(&optimizeFlags.jobs, "jobs", "j", 0, "number of inputs optimized in parallel (0: half of the CPUs)")
}

// newPipeline loads the --config pipeline, if any, and merges the
// command line flags into it.
func newPipeline() (*optimizer.Pipeline, error) {
	p := &optimizer.Pipeline{}
	if optimizeFlags.config != "" {
		var err error
		if p, err = optimizer.LoadPipeline(optimizeFlags.config); err != nil {
			return nil, verror(usageError, err)
		}
	}
	p.Verify = p.Verify || optimizeFlags.verify
	p.CheckStatus = p.CheckStatus || optimizeFlags.checkStatus
	p.SkipNop = p.SkipNop || optimizeFlags.skipNop
	for _, arg := range optimizeFlags.passes {
		p.Passes = append(p.Passes, parsePassArg(arg))
	}
	if len(p.Passes) == 0 {
		return nil, verror(usageError, fmt.Errorf("no passes given, use --pass or --config"))
	}
	// fail early on unknown passes or bad arguments
	if err := p.Configure(optimizer.NewManager(optimizer.Config{})); err != nil {
		return nil, verror(usageError, err)
	}
	return p, nil
}

// pipelineEnv picks the environment of the pipeline file unless --env
// was given explicitly.
func pipelineEnv(p *optimizer.Pipeline, explicit bool) (core.Env, error) {
	if !explicit {
		env, err := p.Environment()
		if err != nil {
			return core.EnvUnknown, verror(usageError, err)
		}
		if env != core.EnvUnknown {
			return env, nil
		}
	}
	return getEnv()
}

func parsePassArg(arg string) optimizer.PassSpec {
	name, rest, found := strings.Cut(arg, ":")
	ps := optimizer.PassSpec{Name: strings.TrimSpace(name)}
	if found && rest != "" {
		ps.Args = strings.Split(rest, ",")
	}
	return ps
}

// Optimize runs the pipeline over every input. Inputs are independent:
// each one gets its own manager and they run in parallel.
func Optimize(ctx context.Context, p *optimizer.Pipeline, env core.Env, args []string) error {
	if len(args) > 1 && rootFlags.outputFn != "" {
		return verror(usageError, fmt.Errorf("-o cannot be used with %d inputs", len(args)))
	}
	if err := tools.FilesExist(args); err != nil {
		return verror(usageError, err)
	}

	stats := optimizer.NewStats()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(int(defaultJobs(optimizeFlags.jobs)))
	for _, fn := range args {
		fn := fn
		g.Go(func() (err error) {
			defer func() {
				if e := recover(); e != nil {
					err = verror(internalError, fmt.Errorf("%s: panic: %v", fn, e))
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			return optimizeFile(p, env, stats, fn)
		})
	}
	err := g.Wait()
	if optimizeFlags.stats {
		logger.Println("== PASS STATS ================================")
		logger.Println(stats)
	}
	return err
}

func optimizeFile(p *optimizer.Pipeline, env core.Env, stats *optimizer.Stats, fn string) error {
	runID := uuid.New().String()
	consumer := runConsumer(runID)
	logger.Infof("[%s] Optimize '%s'", runID, fn)

	in, err := loadModule(fn, env, consumer)
	if err != nil {
		return err
	}
	var before *module.Module
	if optimizeFlags.printDiff {
		before = in.mod.Clone()
	}

	mgr := optimizer.NewManager(p.ManagerConfig(stats))
	mgr.SetMessageConsumer(consumer)
	if err := p.Configure(mgr); err != nil {
		return verror(usageError, err)
	}
	status := mgr.Run(in.mod)
	logger.Infof("[%s] %s: %v", runID, fn, status)
	if status == core.Failure {
		return vfail(fn)
	}

	if before != nil {
		printDiff(fn, before, in.mod)
	}

	out := outputName(fn, ".opt"+filepath.Ext(fn))
	if in.binary && !optimizeFlags.text {
		return writeBinary(in.mod, out, p.SkipNop)
	}
	opts := module.DefaultPrintOptions()
	opts.SkipNop = p.SkipNop
	return writeText(in.mod, out, opts)
}

func printDiff(fn string, before, after *module.Module) {
	entries := module.Diff(before, after)
	if !module.Changed(entries) {
		logger.Printf("%s: no changes\n", fn)
		return
	}
	var sb strings.Builder
	if err := module.PrintDiff(&sb, entries); err != nil {
		logger.Warnf("could not print diff: %v", err)
		return
	}
	logger.Printf("== DIFF %s\n%s", fn, sb.String())
}

// runConsumer tags the diagnostics of one pipeline run with its ID.
func runConsumer(runID string) core.MessageConsumer {
	c := logger.Consumer()
	return func(d core.Diagnostic) {
		d.Message = "[" + runID + "] " + d.Message
		c(d)
	}
}

func defaultJobs(nb uint) uint {
	if nb != 0 {
		return nb
	}
	cpus := uint(runtime.NumCPU())
	if cpus == 1 {
		return 1
	}
	// use half of CPUs for parallel inputs
	return cpus / cpuFactor
}
