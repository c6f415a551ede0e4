package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/valuation"
)

var estimateFlags struct {
	year      int
	mileage   int
	condition int
	options   []string
}

func init() {
	f := EstimateCmd.Flags()
	f.IntVar(&estimateFlags.year, "year", time.Now().Year(), "model year")
	f.IntVar(&estimateFlags.mileage, "mileage", 0, "odometer reading in miles")
	f.IntVar(&estimateFlags.condition, "condition", 3, "condition rating from 1 (rough) to 5 (excellent)")
	f.StringSliceVar(&estimateFlags.options, "option", nil, "installed option, repeatable")
}

var EstimateCmd = &cobra.Command{
	Use:   EstimateCmdName,
	Short: EstimateCmdShort,
	Long:  EstimateCmdLong,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vehicle := dal.VehicleDescription{
			Year:      estimateFlags.year,
			Mileage:   estimateFlags.mileage,
			Condition: estimateFlags.condition,
			Options:   estimateFlags.options,
		}
		if err := dal.NewValidator().Struct(vehicle); err != nil {
			return fmt.Errorf("invalid vehicle: %w", err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		quotes, failures := a.registry.QuoteAll(cmd.Context(), vehicle)
		resp := dal.ValuationResponse{
			RequestID: uuid.NewString(),
			Vehicle:   vehicle,
			Quotes:    quotes,
			Failures:  failures,
			Summary:   valuation.Aggregate(quotes),
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}
