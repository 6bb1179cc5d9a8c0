// Package synclayer defines the opaque peer-networking boundary: the
// runtime broadcasts newly applied blocks and can sync with peers, but
// neither depends on a concrete gossip or transport protocol. A
// concrete transport (libp2p, devp2p, or none at all in embedded/dev
// use) is out of scope here.
package synclayer

import (
	"context"

	"github.com/baals/baals-go/core/types"
)

// PeerID opaquely identifies a remote participant; its encoding is a
// concern of the concrete SyncLayer implementation.
type PeerID string

// SyncLayer is the runtime's networking boundary.
type SyncLayer interface {
	// DiscoverPeers returns currently known peers.
	DiscoverPeers(ctx context.Context) ([]PeerID, error)

	// BroadcastBlock announces a newly applied block to the network.
	// Implementations must not block the caller on slow peers.
	BroadcastBlock(ctx context.Context, block *types.Block) error

	// SyncWithPeer requests any blocks peer has beyond ours.
	SyncWithPeer(ctx context.Context, peer PeerID, fromHeight uint64) error
}
