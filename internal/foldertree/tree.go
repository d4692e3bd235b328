package foldertree

import (
	"context"
	"slices"

	"studyshare/internal/models"
)

// TreeNode is a folder with its subtree nested under Children.
type TreeNode struct {
	models.Folder
	Children []TreeNode `json:"children"`
}

// Tree materializes the forest rooted at rootParent (nil for the full
// forest). All folders are loaded in one read, bucketed by parent, and
// assembled recursively; ordering within each level is the store's
// (sort order, name) ordering. A visited set keeps a corrupted parent
// chain from recursing forever.
func (s *Service) Tree(ctx context.Context, rootParent *string) ([]TreeNode, error) {
	folders, err := s.store.ListAllFolders(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]models.Folder)
	for _, folder := range folders {
		key := parentKey(folder.ParentID)
		children[key] = append(children[key], folder)
	}

	visited := make(map[string]bool)
	return buildSubtree(children, parentKey(rootParent), visited), nil
}

func buildSubtree(children map[string][]models.Folder, parent string, visited map[string]bool) []TreeNode {
	nodes := make([]TreeNode, 0, len(children[parent]))
	for _, folder := range children[parent] {
		if visited[folder.ID] {
			continue
		}
		visited[folder.ID] = true

		nodes = append(nodes, TreeNode{
			Folder:   folder,
			Children: buildSubtree(children, folder.ID, visited),
		})
	}
	return nodes
}

// snapshot is a point-in-time adjacency view of the folder table plus,
// optionally, per-folder direct resource counts. Counts computed from it
// reflect a single read each of folders and resources rather than one
// query per node; concurrent mutations during the read are acceptable for
// the UI statistics these feed.
type snapshot struct {
	children  map[string][]string
	resources map[string]int64
}

func (s *Service) loadSnapshot(ctx context.Context, withResources bool) (*snapshot, error) {
	folders, err := s.store.ListAllFolders(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{children: make(map[string][]string)}
	for _, folder := range folders {
		key := parentKey(folder.ParentID)
		snap.children[key] = append(snap.children[key], folder.ID)
	}

	if withResources {
		snap.resources, err = s.store.CountResourcesGroupedByFolder(ctx)
		if err != nil {
			return nil, err
		}
	}

	return snap, nil
}

// resourcesUnder sums direct resource counts over the subtree rooted at
// id, the root included.
func (sn *snapshot) resourcesUnder(id string) int64 {
	total := int64(0)
	sn.walk(id, func(folderID string) {
		total += sn.resources[folderID]
	})
	return total
}

// foldersUnder counts transitive descendant folders, the root excluded.
func (sn *snapshot) foldersUnder(id string) int64 {
	count := int64(-1)
	sn.walk(id, func(string) {
		count++
	})
	return count
}

func (sn *snapshot) walk(root string, visit func(id string)) {
	visited := map[string]bool{root: true}
	stack := []string{root}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(cur)

		for _, child := range sn.children[cur] {
			if visited[child] {
				continue
			}
			visited[child] = true
			stack = append(stack, child)
		}
	}
}

// recomputeDescendantPaths rewrites the cached path of every descendant of
// root after a rename or move. Walks breadth-first over one snapshot of
// the table and only touches rows whose path actually changed. The writes
// are sequential; a failure partway leaves stale paths that the next
// rename or move of the same ancestor repairs.
func (s *Service) recomputeDescendantPaths(ctx context.Context, root *models.Folder) error {
	folders, err := s.store.ListAllFolders(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]*models.Folder, len(folders))
	children := make(map[string][]string)
	for i := range folders {
		folder := &folders[i]
		byID[folder.ID] = folder
		children[parentKey(folder.ParentID)] = append(children[parentKey(folder.ParentID)], folder.ID)
	}
	byID[root.ID] = root

	visited := map[string]bool{root.ID: true}
	queue := []string{root.ID}

	for len(queue) > 0 {
		cur := byID[queue[0]]
		queue = queue[1:]

		childPath := append(slices.Clone(cur.Path), cur.Name)
		for _, childID := range children[cur.ID] {
			if visited[childID] {
				continue
			}
			visited[childID] = true

			child := byID[childID]
			if !slices.Equal(child.Path, childPath) {
				if err := s.store.SetFolderPath(ctx, childID, childPath); err != nil {
					return err
				}
				child.Path = childPath
			}
			queue = append(queue, childID)
		}
	}

	return nil
}

func parentKey(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}
