package analyzer

//
// Import graph analysis
//

// As soon as the algorithm detects that the `originalStart` node is reachable from other modules, it returns an error
func (self Analyzer) importGraphIsCyclicInner(originalStart string, start string, path []string) (outputPath []string, isCyclic bool) {
	// modules reachable from `start`
	var neighbors []string
	if module, found := self.modules[start]; found {
		neighbors = module.ImportsModules
	} else {
		// this module is not analyzed yet; fall back to the parse-time edges
		for _, edge := range self.importEdges[start] {
			neighbors = append(neighbors, edge.To)
		}
	}

	for _, node := range neighbors {
		if node == originalStart {
			return append(path, node), true
		}
		// a cycle not involving `originalStart` must not loop the walk forever
		if containsModule(path, node) {
			continue
		}
		if path, cyclic := self.importGraphIsCyclicInner(originalStart, node, append(path, node)); cyclic {
			return path, cyclic
		}
	}

	return path, false
}

func containsModule(path []string, test string) bool {
	for _, module := range path {
		if module == test {
			return true
		}
	}
	return false
}

func (self Analyzer) importGraphIsCyclic(start string) (outputPath []string, isCyclic bool) {
	return self.importGraphIsCyclicInner(start, start, []string{start})
}
