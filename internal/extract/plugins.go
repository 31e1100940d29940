package extract

import (
	"studiocat/internal/model"
	"studiocat/internal/xmltree"
)

// Plugins returns the deduplicated union of every Vst3PluginInfo/Name and
// VstPluginInfo/PlugName reference found anywhere in the document.
func Plugins(root *xmltree.Node) []model.Plugin {
	seen := make(map[string]bool)
	var out []model.Plugin

	for _, n := range xmltree.FindAll(root, "Vst3PluginInfo") {
		name := n.Child("Name")
		if name == nil {
			continue
		}
		v, ok := name.Attr("Value")
		if !ok || v == "" {
			continue
		}
		key := string(model.VST3) + "\x00" + v
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.Plugin{Name: v, Family: model.VST3})
	}

	for _, n := range xmltree.FindAll(root, "VstPluginInfo") {
		name := n.Child("PlugName")
		if name == nil {
			continue
		}
		v, ok := name.Attr("Value")
		if !ok || v == "" {
			continue
		}
		key := string(model.VST) + "\x00" + v
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.Plugin{Name: v, Family: model.VST})
	}

	return out
}
