package synclayer

import (
	"context"

	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/log"
)

// Noop is a SyncLayer that only logs: the correct default for
// embedded/single-node and dev-mode use, where there is no peer
// network to reach.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

var _ SyncLayer = (*Noop)(nil)

func (Noop) DiscoverPeers(ctx context.Context) ([]PeerID, error) {
	return nil, nil
}

func (Noop) BroadcastBlock(ctx context.Context, block *types.Block) error {
	log.Debug("synclayer: broadcast suppressed, no peers configured", "block", block.Hash.String(), "index", block.Index)
	return nil
}

func (Noop) SyncWithPeer(ctx context.Context, peer PeerID, fromHeight uint64) error {
	log.Debug("synclayer: sync suppressed, no peers configured", "peer", string(peer), "from_height", fromHeight)
	return nil
}
