package elfs

import (
	"fmt"
	"strings"
)

// Path resolution walks directories component by component, carrying a
// parent stack for "..". Symlink components splice their target's components
// ahead of the remainder and restart the walk, bounded by MaxSymlinkDepth.
// No reachability graph is kept; the depth counter alone breaks cycles.

// splitComponents tokenizes a path, dropping empty components.
func splitComponents(path string) []string {
	var comps []string
	for _, comp := range strings.Split(path, "/") {
		if comp != "" {
			comps = append(comps, comp)
		}
	}
	return comps
}

// ResolvePath resolves a path to the inode id of its final component,
// dereferencing symlinks along the way.
func (fs *FileSystem) ResolvePath(path string) (uint32, error) {
	id, _, err := fs.resolvePathWithStack(path)
	return id, err
}

func (fs *FileSystem) resolvePathWithStack(path string) (uint32, []uint32, error) {
	if path == "" {
		return 0, nil, ErrEmptyPath
	}

	start, parents := fs.walkOrigin(path)
	comps := splitComponents(path)

	final, err := fs.resolveComponents(start, &parents, comps, 0)
	if err != nil {
		return 0, nil, err
	}
	return final, parents, nil
}

// ResolveParentAndName resolves everything but the final component and
// returns the parent directory's inode id plus the unresolved last name.
// Create and delete operations use this so the last component is never
// dereferenced.
func (fs *FileSystem) ResolveParentAndName(path string) (uint32, string, error) {
	if path == "" {
		return 0, "", ErrEmptyPath
	}

	comps := splitComponents(path)
	if len(comps) == 0 {
		return 0, "", ErrEmptyPath.WithMessage("path has no final component")
	}
	name := comps[len(comps)-1]
	comps = comps[:len(comps)-1]

	start, parents := fs.walkOrigin(path)
	parentID, err := fs.resolveComponents(start, &parents, comps, 0)
	if err != nil {
		return 0, "", err
	}
	return parentID, name, nil
}

// walkOrigin picks the starting inode and parent stack for a path.
func (fs *FileSystem) walkOrigin(path string) (uint32, []uint32) {
	if strings.HasPrefix(path, "/") {
		return fs.sb.RootInodeID, nil
	}
	parents := make([]uint32, len(fs.cwdStack))
	copy(parents, fs.cwdStack)
	return fs.cwdInode, parents
}

// resolveComponents is the core walk. It mutates `parents` so callers keep
// the resulting stack.
func (fs *FileSystem) resolveComponents(
	current uint32,
	parents *[]uint32,
	comps []string,
	depth int,
) (uint32, error) {
	if depth > MaxSymlinkDepth {
		return 0, ErrSymlinkLoop.WithMessage(
			fmt.Sprintf("expansion depth exceeds %d", MaxSymlinkDepth))
	}

	for idx := 0; idx < len(comps); idx++ {
		comp := comps[idx]

		if comp == "." {
			continue
		}
		if comp == ".." {
			// ".." at the root stays at the root.
			if n := len(*parents); n > 0 {
				current = (*parents)[n-1]
				*parents = (*parents)[:n-1]
			} else {
				current = fs.sb.RootInodeID
			}
			continue
		}

		curInode, err := fs.ReadInode(current)
		if err != nil {
			return 0, err
		}
		if !curInode.IsDir() {
			return 0, ErrNotADirectory.WithMessage(
				fmt.Sprintf("inode %d is not a directory", current))
		}

		_, entry, err := fs.DirFind(curInode, comp)
		if err != nil {
			return 0, ErrComponentNotFound.WithMessage(
				fmt.Sprintf("component %q not found", comp))
		}

		next, err := fs.ReadInode(entry.InodeID)
		if err != nil {
			return 0, err
		}

		if next.FileType == TypeSymlink {
			target, err := fs.ReadlinkTarget(next.ID)
			if err != nil {
				return 0, err
			}

			spliced := splitComponents(target)
			spliced = append(spliced, comps[idx+1:]...)

			if strings.HasPrefix(target, "/") {
				*parents = (*parents)[:0]
				return fs.resolveComponents(fs.sb.RootInodeID, parents, spliced, depth+1)
			}
			return fs.resolveComponents(current, parents, spliced, depth+1)
		}

		*parents = append(*parents, current)
		current = next.ID
	}
	return current, nil
}

////////////////////////////////////////////////////////////////////////////////
// Working directory

// Cd changes the working directory. The target must resolve to a directory.
func (fs *FileSystem) Cd(path string) error {
	id, stack, err := fs.resolvePathWithStack(path)
	if err != nil {
		return err
	}

	ino, err := fs.ReadInode(id)
	if err != nil {
		return err
	}
	if !ino.IsDir() {
		return ErrNotADirectory.WithMessage(
			fmt.Sprintf("%q is not a directory", path))
	}

	fs.cwdInode = id
	fs.cwdStack = stack
	fs.cwdPath = fs.displayPath(id, path)
	return nil
}

// Pwd returns the display path of the working directory.
func (fs *FileSystem) Pwd() string {
	return fs.cwdPath
}

// CwdInode returns the inode id of the working directory.
func (fs *FileSystem) CwdInode() uint32 {
	return fs.cwdInode
}

// displayPath rewrites the input path into an absolute display string,
// collapsing ".", "..", doubled and trailing slashes. Presentational only;
// the parent stack is the authoritative walk state.
func (fs *FileSystem) displayPath(id uint32, input string) string {
	if id == fs.sb.RootInodeID {
		return "/"
	}

	combined := input
	if !strings.HasPrefix(input, "/") {
		combined = strings.TrimSuffix(fs.cwdPath, "/") + "/" + input
	}

	var parts []string
	for _, comp := range strings.Split(combined, "/") {
		switch comp {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, comp)
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}
