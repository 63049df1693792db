package solution

// RebuildFolderRelations turns the "{child} = {parent}" rows of a hierarchy
// section into NestedProjects relations on the already-parsed folders.
// Rows whose child or parent is unknown are ignored. Calling it again with the
// same input adds nothing.
func RebuildFolderRelations(hierarchy *NestedProjectsSection, projects []Project) {
	byGUID := make(map[string]Project, len(projects))
	folders := make(map[string]*FolderProject)
	for _, p := range projects {
		if _, ok := byGUID[p.GUID()]; !ok {
			byGUID[p.GUID()] = p
		}
		if f, ok := p.(*FolderProject); ok {
			if _, seen := folders[f.GUID()]; !seen {
				folders[f.GUID()] = f
			}
		}
	}

	for _, pair := range hierarchy.Pairs() {
		child, ok := byGUID[pair.Child]
		if !ok {
			continue
		}
		parent, ok := folders[pair.Parent]
		if !ok || parent == child {
			continue
		}
		parent.AddNested(child.Key())
	}
}

// HierarchyFromRelations derives a hierarchy section from the folder relations
// of projects. Only children present in projects are emitted, and a child
// nested in several folders is attributed to the first one.
func HierarchyFromRelations(projects []Project) *NestedProjectsSection {
	present := make(map[Key]Project, len(projects))
	for _, p := range projects {
		present[p.Key()] = p
	}

	var pairs []NestedPair
	placed := make(map[Key]struct{})
	for _, p := range projects {
		f, ok := p.(*FolderProject)
		if !ok {
			continue
		}
		for _, childKey := range f.nested {
			child, ok := present[childKey]
			if !ok {
				continue
			}
			if _, dup := placed[childKey]; dup {
				continue
			}
			placed[childKey] = struct{}{}
			pairs = append(pairs, NestedPair{Child: child.GUID(), Parent: f.GUID()})
		}
	}

	return NewNestedProjectsSection(pairs...)
}

// RootFolders returns the folders of projects that are not nested in any
// other folder of projects, in list order.
func RootFolders(projects []Project) []*FolderProject {
	nested := make(map[Key]struct{})
	for _, p := range projects {
		if f, ok := p.(*FolderProject); ok {
			for _, k := range f.nested {
				nested[k] = struct{}{}
			}
		}
	}

	var roots []*FolderProject
	for _, p := range projects {
		f, ok := p.(*FolderProject)
		if !ok {
			continue
		}
		if _, isChild := nested[f.Key()]; !isChild {
			roots = append(roots, f)
		}
	}
	return roots
}
