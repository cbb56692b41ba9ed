package ports

import (
	"context"
)

// Frontend defines a way of driving the analysis controller
type Frontend interface {
	// Run drives the frontend until its input is exhausted or ctx is done
	Run(ctx context.Context) error
}
