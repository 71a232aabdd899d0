// Command convert_time prints a time in the standard mission formats.
//
// With no arguments it converts the current time. The input format is
// auto-detected unless given as the second argument.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	chandratime "github.com/sot/chandra-time"
	"github.com/sot/chandra-time/internal/axtime"
)

var rootCmd = &cobra.Command{
	Use:   "convert_time [time] [format]",
	Short: "Convert a time to the standard mission formats",
	Long: `Convert a time to the standard mission formats.

Prints the input time as fits, caldate, date, secs, and jd, one per line.
With no time argument the current time is used. The input format is
auto-detected unless given explicitly as the second argument.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetConfigName(".chandra-time")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("chandra")
	viper.AutomaticEnv()

	viper.SetDefault("noon_day_start", false)
	viper.SetDefault("leap_seconds_file", "")

	// Missing config file is fine; defaults and env apply.
	_ = viper.ReadInConfig()
}

func run(cmd *cobra.Command, args []string) error {
	if viper.GetBool("noon_day_start") {
		chandratime.UseNoonDayStart()
	}
	if path := viper.GetString("leap_seconds_file"); path != "" {
		if err := axtime.LoadLeapSecondsFile(path); err != nil {
			return err
		}
	}

	in := chandratime.Now()
	format := ""
	if len(args) > 0 {
		in = chandratime.String(args[0])
	}
	if len(args) > 1 {
		format = args[1]
	}

	t, err := chandratime.New(in, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, get := range []func() (string, error){t.FITS, t.Caldate, t.Date} {
		s, err := get()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	}
	for _, get := range []func() (float64, error){t.Secs, t.JD} {
		v, err := get()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
