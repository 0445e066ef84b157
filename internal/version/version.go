// ABOUTME: Version constants for the player binary
// ABOUTME: Reported in logs and the websocket hello
package version

const (
	// Version is the software version
	Version = "0.1.0"

	// Product is the product name
	Product = "FLACStream Player"

	// Manufacturer identifies the project
	Manufacturer = "FLACStream"
)
