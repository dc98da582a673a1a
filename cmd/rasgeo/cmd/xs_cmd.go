package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"rasgeo/pkg/geometry"
)

// xsCmd groups the cross-section subcommands.
var xsCmd = &cobra.Command{
	Use:   "xs",
	Short: "Work with cross sections",
}

// xsShowCmd prints a cross-section's profile and banks.
var xsShowCmd = &cobra.Command{
	Use:   "show [geometry_file] [river] [reach] [station]",
	Short: "Show a cross-section's station/elevation profile",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		xs, err := geometry.GetStationElevation(args[0], args[1], args[2], args[3])
		if err != nil {
			logger.Error("reading cross section", "station", args[3], "err", err)
			os.Exit(1)
		}
		w := cfg.Width
		fmt.Printf("%s / %s / RS %s  (%d points)\n", xs.River, xs.Reach, xs.Station, len(xs.Points))
		fmt.Printf("banks: %g, %g   lengths: %g/%g/%g\n",
			xs.BankLeft, xs.BankRight, xs.LengthLeft, xs.LengthChannel, xs.LengthRight)
		for _, p := range xs.Points {
			mark := " "
			if p.Station == xs.BankLeft || p.Station == xs.BankRight {
				mark = "*"
			}
			fmt.Printf("%s %*.2f %*.2f\n", mark, w, p.Station, w, p.Elevation)
		}
	},
}

// xsSetBanksCmd moves a cross-section's bank stations, interpolating new
// profile points when the banks fall between existing ones.
var xsSetBanksCmd = &cobra.Command{
	Use:   "set-banks [geometry_file] [river] [reach] [station] [left] [right]",
	Short: "Move a cross-section's bank stations",
	Args:  cobra.ExactArgs(6),
	Run: func(cmd *cobra.Command, args []string) {
		left, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			logger.Error("bad left bank", "value", args[4], "err", err)
			os.Exit(1)
		}
		right, err := strconv.ParseFloat(args[5], 64)
		if err != nil {
			logger.Error("bad right bank", "value", args[5], "err", err)
			os.Exit(1)
		}
		xs, err := geometry.GetStationElevation(args[0], args[1], args[2], args[3])
		if err != nil {
			logger.Error("reading cross section", "station", args[3], "err", err)
			os.Exit(1)
		}
		if err := geometry.SetStationElevation(args[0], args[1], args[2], args[3], xs.Points, left, right); err != nil {
			logger.Error("writing cross section", "station", args[3], "err", err)
			os.Exit(1)
		}
		logger.Info("banks moved", "station", args[3], "left", left, "right", right)
	},
}

func init() {
	xsCmd.AddCommand(xsShowCmd)
	xsCmd.AddCommand(xsSetBanksCmd)
	rootCmd.AddCommand(xsCmd)
}
