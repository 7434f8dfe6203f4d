package referral

import (
	"context"
	"fmt"

	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// TreeNode is one user in a referral tree.
type TreeNode struct {
	User      model.User
	Referrals []*TreeNode
}

// Size returns the number of users in the tree, root included.
func (n *TreeNode) Size() int {
	if n == nil {
		return 0
	}
	size := 1
	for _, c := range n.Referrals {
		size += c.Size()
	}
	return size
}

// Tree returns userID and its referrals down to depth levels, root
// included. depth <= 0 uses the configured default.
func (s *Service) Tree(ctx context.Context, userID int64, depth int) (*TreeNode, error) {
	if depth <= 0 {
		depth = s.cfg.TreeDepth
	}

	root, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	visited := map[int64]bool{userID: true}
	node := &TreeNode{User: root}
	if err := s.grow(ctx, node, 1, depth, userID, visited); err != nil {
		return nil, err
	}
	return node, nil
}

func (s *Service) grow(ctx context.Context, node *TreeNode, level, depth int, root int64, visited map[int64]bool) error {
	if level >= depth {
		return nil
	}

	children, err := s.store.ReferredUsers(ctx, node.User.ID)
	if err != nil {
		return fmt.Errorf("list referrals of %d: %w", node.User.ID, err)
	}

	for _, c := range children {
		if visited[c.ID] {
			return s.integrity(&IntegrityError{
				UserID: root,
				Path:   []int64{node.User.ID, c.ID},
				Reason: fmt.Sprintf("user %d reached twice below %d", c.ID, root),
			})
		}
		visited[c.ID] = true

		child := &TreeNode{User: c}
		node.Referrals = append(node.Referrals, child)
		if err := s.grow(ctx, child, level+1, depth, root, visited); err != nil {
			return err
		}
	}
	return nil
}

// Leaderboard returns the top referrers by total credited.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	entries, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return entries, nil
}
