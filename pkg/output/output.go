// Package output delivers probe readings to their destinations.
package output

import (
	"errors"

	"github.com/itohio/flexdms/pkg/link"
)

// Output receives every reading of a session.
type Output interface {
	Publish(link.Reading) error
	Close() error
}

// Fanout publishes to several outputs.
type Fanout []Output

// Publish sends r to every output and joins their errors.
func (f Fanout) Publish(r link.Reading) error {
	var errs []error
	for _, o := range f {
		if err := o.Publish(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every output and joins their errors.
func (f Fanout) Close() error {
	var errs []error
	for _, o := range f {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
