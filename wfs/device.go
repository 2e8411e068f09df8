package wfs

import "github.com/ws-kj/wfs/block"

// Device is the storage contract wFS mounts on top of; an alias of
// block.Device so callers outside this module don't need to import block
// directly just to install one.
type Device = block.Device
