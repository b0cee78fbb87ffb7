//go:build !pi

package strip

import "errors"

// errNoPiBuild is returned when the binary was built without the pi tag.
var errNoPiBuild = errors.New("ws281x support requires a build with the pi tag")

func newWS281x(_ Config) (Driver, error) {
	return nil, errNoPiBuild
}
