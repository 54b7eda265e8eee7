package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag couples a viper config key with its CLI flag name and, optionally,
// the environment variable that overrides it.
type Flag struct {
	Config string
	Cli    string
	Env    string
}

func NewFlag(config, cli string) *Flag {
	return &Flag{
		Config: config,
		Cli:    cli,
	}
}

// WithEnv binds the flag to an environment variable as well
func (f *Flag) WithEnv(env string) *Flag {
	f.Env = env
	return f
}

func (f *Flag) bindEnv() {
	if f.Env != "" {
		if err := viper.BindEnv(f.Config, f.Env); err != nil {
			panic(err)
		}
	}
}

type StringFlag struct {
	f *Flag
}

func (f *Flag) String() *StringFlag {
	return &StringFlag{f: f}
}

func (f *StringFlag) Bind(cmd *cobra.Command, value, usage string) {
	cmd.PersistentFlags().String(f.f.Cli, value, usage)
	if err := viper.BindPFlag(f.f.Config, cmd.PersistentFlags().Lookup(f.f.Cli)); err != nil {
		panic(err)
	}
	f.f.bindEnv()
}

type StringPFlag struct {
	f  *Flag
	sh string
}

func (f *Flag) StringP(shorthand string) *StringPFlag {
	return &StringPFlag{f: f, sh: shorthand}
}

func (f *StringPFlag) Bind(cmd *cobra.Command, value, usage string) {
	cmd.PersistentFlags().StringP(f.f.Cli, f.sh, value, usage)
	if err := viper.BindPFlag(f.f.Config, cmd.PersistentFlags().Lookup(f.f.Cli)); err != nil {
		panic(err)
	}
	f.f.bindEnv()
}

type IntFlag struct {
	f  *Flag
	sh string
}

func (f *Flag) Int() *IntFlag {
	return &IntFlag{f: f}
}

func (f *Flag) IntP(shorthand string) *IntFlag {
	return &IntFlag{f: f, sh: shorthand}
}

func (f *IntFlag) Bind(cmd *cobra.Command, value int, usage string) {
	if f.sh != "" {
		cmd.PersistentFlags().IntP(f.f.Cli, f.sh, value, usage)
	} else {
		cmd.PersistentFlags().Int(f.f.Cli, value, usage)
	}
	if err := viper.BindPFlag(f.f.Config, cmd.PersistentFlags().Lookup(f.f.Cli)); err != nil {
		panic(err)
	}
	f.f.bindEnv()
}

type BoolFlag struct {
	f  *Flag
	sh string
}

func (f *Flag) Bool() *BoolFlag {
	return &BoolFlag{f: f}
}

func (f *Flag) BoolP(shorthand string) *BoolFlag {
	return &BoolFlag{f: f, sh: shorthand}
}

func (f *BoolFlag) Bind(cmd *cobra.Command, value bool, usage string) {
	if f.sh != "" {
		cmd.PersistentFlags().BoolP(f.f.Cli, f.sh, value, usage)
	} else {
		cmd.PersistentFlags().Bool(f.f.Cli, value, usage)
	}
	if err := viper.BindPFlag(f.f.Config, cmd.PersistentFlags().Lookup(f.f.Cli)); err != nil {
		panic(err)
	}
	f.f.bindEnv()
}
