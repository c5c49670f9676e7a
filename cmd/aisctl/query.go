package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ais-service/internal/bootstrap"
	"github.com/ais-service/internal/usecase"
	"github.com/ais-service/internal/usecase/dto"
)

var (
	flagPage int
	flagSRID int
)

var reverseCmd = &cobra.Command{
	Use:   "reverse x,y",
	Short: "Reverse geocode a coordinate against a freshly built index",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseXY(args)
		if err != nil {
			return err
		}
		_, store, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}

		params := bootstrap.MatchParams(cfg)
		params.CacheTTL = 0
		uc := usecase.NewReverseGeocodeUseCase(store, nil, log, params)
		resp, err := uc.ReverseGeocode(cmd.Context(), dto.ReverseGeocodeRequest{
			Query: strings.Join(args, ","),
			X:     x,
			Y:     y,
			Page:  flagPage,
			SRID:  flagSRID,
		})
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), resp)
	},
}

var serviceAreasCmd = &cobra.Command{
	Use:   "service-areas x,y",
	Short: "Print the service area values at a coordinate",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseXY(args)
		if err != nil {
			return err
		}
		_, store, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}

		uc := usecase.NewServiceAreaUseCase(store, nil, log, bootstrap.Envelope(cfg), 0)
		resp, err := uc.ServiceAreas(cmd.Context(), dto.ServiceAreaRequest{
			Query: strings.Join(args, ","),
			X:     x,
			Y:     y,
			SRID:  flagSRID,
		})
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	reverseCmd.Flags().IntVar(&flagPage, "page", 1, "result page")
	reverseCmd.Flags().IntVar(&flagSRID, "srid", 4326, "output reference, 4326 or 2272")
	serviceAreasCmd.Flags().IntVar(&flagSRID, "srid", 4326, "output reference, 4326 or 2272")

	rootCmd.AddCommand(reverseCmd)
	rootCmd.AddCommand(serviceAreasCmd)
}
