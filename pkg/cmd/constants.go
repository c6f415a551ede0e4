package cmd

const (
	RootCmdName  = "tradeval"
	RootCmdShort = "Vehicle trade-in valuation service"
	RootCmdLong  = `tradeval estimates a vehicle's wholesale trade-in value by combining quotes
from several valuation providers into a trimmed-mean price range, and decodes
VINs through a prioritized chain of decoder backends.`

	ServeCmdName  = "serve"
	ServeCmdShort = "Start the HTTP API"
	ServeCmdLong  = `Start the HTTP API serving /api/valuation and /api/vin/{vin}.`

	EstimateCmdName  = "estimate"
	EstimateCmdShort = "Value a vehicle from the command line"
	EstimateCmdLong  = `Query every configured provider for a vehicle and print the quotes and
the aggregate summary as JSON.`

	DecodeCmdName  = "decode [vin]"
	DecodeCmdShort = "Decode a VIN"
	DecodeCmdLong  = `Resolve a VIN through the decoder chain and print the result as JSON.`
)
