// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/automation/lib/codec"
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/platform"
)

// maxTreeNodes bounds a single tree or snapshot response.
const maxTreeNodes = 5000

// describe summarizes node and returns its children. Tree thread only.
func describe(ctx context.Context, node *platform.Node) (ElementInfo, []*platform.Node, error) {
	snapshot, err := node.Snapshot(ctx)
	if err != nil {
		return ElementInfo{}, nil, err
	}
	patterns, err := node.Patterns(ctx)
	if err != nil {
		return ElementInfo{}, nil, err
	}
	children, err := node.Children(ctx)
	if err != nil {
		return ElementInfo{}, nil, err
	}
	info := ElementInfo{
		ID:                   node.ID(),
		RuntimeID:            node.RuntimeID(),
		Name:                 snapshot.Name,
		ControlType:          snapshot.ControlType.String(),
		LocalizedControlType: snapshot.LocalizedControlType,
		ClassName:            snapshot.ClassName,
		Bounds:               rectOf(snapshot.BoundingRectangle),
		Enabled:              snapshot.IsEnabled,
		Focusable:            snapshot.IsKeyboardFocusable,
		Focused:              snapshot.HasKeyboardFocus,
		ControlElement:       snapshot.IsControlElement,
		ChildCount:           len(children),
	}
	for _, pattern := range patterns {
		info.Patterns = append(info.Patterns, pattern.String())
	}
	return info, children, nil
}

// detail describes node with its parent and every property it has.
// Tree thread only.
func detail(ctx context.Context, node *platform.Node) (ElementDetail, error) {
	info, _, err := describe(ctx, node)
	if err != nil {
		return ElementDetail{}, err
	}
	result := ElementDetail{ElementInfo: info, Properties: []Property{}}
	parent, err := node.Navigate(ctx, platform.NavigateParent)
	if err != nil {
		return ElementDetail{}, err
	}
	if parent != nil {
		result.Parent = parent.ID()
	}
	for _, id := range platform.Properties {
		value, err := node.Property(ctx, id)
		if err != nil {
			return ElementDetail{}, err
		}
		if value == nil {
			continue
		}
		result.Properties = append(result.Properties, Property{Name: id.String(), Value: wireValue(value)})
	}
	return result, nil
}

// walker builds TreeNodes. With controlOnly set, elements that are not
// control elements are left out and their children take their place.
type walker struct {
	controlOnly bool
	budget      int
}

// walk returns the subtree under node. depth is the number of levels
// to include, counting node itself; zero means no limit. Tree thread
// only.
func (w *walker) walk(ctx context.Context, node *platform.Node, depth int) ([]TreeNode, error) {
	info, children, err := describe(ctx, node)
	if err != nil {
		return nil, err
	}
	if w.controlOnly && !info.ControlElement {
		return w.walkChildren(ctx, children, depth, nil)
	}

	w.budget--
	tree := TreeNode{ElementInfo: info}
	if depth == 1 {
		tree.Truncated = len(children) > 0
		return []TreeNode{tree}, nil
	}
	next := 0
	if depth > 1 {
		next = depth - 1
	}
	tree.Children, err = w.walkChildren(ctx, children, next, &tree.Truncated)
	if err != nil {
		return nil, err
	}
	return []TreeNode{tree}, nil
}

// walkChildren walks children in order until the node budget runs
// out, setting *truncated when it does.
func (w *walker) walkChildren(ctx context.Context, children []*platform.Node, depth int, truncated *bool) ([]TreeNode, error) {
	var result []TreeNode
	for _, child := range children {
		if w.budget <= 0 {
			if truncated != nil {
				*truncated = true
			}
			break
		}
		nodes, err := w.walk(ctx, child, depth)
		if err != nil {
			return nil, err
		}
		result = append(result, nodes...)
	}
	return result, nil
}

// Digest returns the hex BLAKE3 hash of the tree's canonical CBOR
// encoding. Equal trees have equal digests.
func Digest(tree []TreeNode) (string, error) {
	data, err := codec.Marshal(tree)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func geometryPoint(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}
