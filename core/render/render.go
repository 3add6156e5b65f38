package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tristendillon/injscope/core/models"
	"gopkg.in/yaml.v3"
)

func kindColor(kind models.InjectorKind) text.Colors {
	switch kind {
	case models.KindElement:
		return text.Colors{text.FgHiCyan}
	case models.KindModule, models.KindImportedModule:
		return text.Colors{text.FgHiMagenta}
	case models.KindPlatform:
		return text.Colors{text.FgHiBlue}
	case models.KindNullInjector:
		return text.Colors{text.FgHiBlack}
	default:
		return text.Colors{text.FgHiGreen}
	}
}

func Label(inj models.SerializedInjector) string {
	name := inj.Name
	if name == "" {
		name = "(anonymous)"
	}
	label := fmt.Sprintf("%s %s %s", kindColor(inj.Type).Sprint(name), text.FgHiBlack.Sprintf("[%s]", inj.Type), text.FgHiBlack.Sprint(inj.ID))
	if len(inj.ImportPath) > 0 {
		names := make([]string, len(inj.ImportPath))
		for i, imp := range inj.ImportPath {
			names[i] = imp.Name
		}
		label += text.FgYellow.Sprintf(" via %s", strings.Join(names, " > "))
	}
	return label
}

// Tree writes the merged tree root first.
func Tree(w io.Writer, tree *models.InjectorTree) error {
	if tree == nil || tree.Root == nil {
		_, err := fmt.Fprintln(w, text.FgYellow.Sprint("(empty injector tree)"))
		return err
	}
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	appendNode(l, tree.Root)
	_, err := fmt.Fprintln(w, l.Render())
	return err
}

// Forest writes each tree in turn, separated by a blank line.
func Forest(w io.Writer, trees []*models.InjectorTree) error {
	if len(trees) == 0 {
		return Tree(w, nil)
	}
	for i, tree := range trees {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := Tree(w, tree); err != nil {
			return err
		}
	}
	return nil
}

func appendNode(l list.Writer, node *models.MergedInjectorTreeNode) {
	l.AppendItem(Label(node.Injector))
	if len(node.Children) == 0 {
		return
	}
	l.Indent()
	for _, child := range node.Children {
		appendNode(l, child)
	}
	l.UnIndent()
}

// Path writes a resolution path most specific first.
func Path(w io.Writer, path models.SerializedPath) error {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Type", "Name", "ID", "Providers", "Import path"})
	for i, inj := range path {
		t.AppendRow(table.Row{i, inj.Type.String(), inj.Name, inj.ID, inj.ProviderCount, importNames(inj.ImportPath)})
	}
	if !path.Resolved() {
		t.AppendFooter(table.Row{"", "", text.FgRed.Sprint("unresolved"), "", "", ""})
	}
	t.Render()
	return nil
}

func Providers(w io.Writer, providers []models.ProviderRecord) error {
	if len(providers) == 0 {
		_, err := fmt.Fprintln(w, text.FgYellow.Sprint("No providers"))
		return err
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Token", "Kind", "Multi", "View", "Declared via"})
	for _, p := range providers {
		t.AppendRow(table.Row{p.Token, p.Kind, p.Multi, p.ViewProvider, importNames(p.ImportPath)})
	}
	t.Render()
	return nil
}

func Dependencies(w io.Writer, deps []models.DependencyRecord) error {
	if len(deps) == 0 {
		_, err := fmt.Fprintln(w, text.FgYellow.Sprint("No dependencies"))
		return err
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Directive", "Token", "Flags", "Resolved by", "Hops"})
	for _, d := range deps {
		resolvedBy := text.FgRed.Sprint("unresolved")
		if d.Resolved && len(d.Path) > 0 {
			resolvedBy = d.Path[len(d.Path)-1].Name
		}
		t.AppendRow(table.Row{d.Directive, d.Token, flagNames(d.Flags), resolvedBy, len(d.Path)})
	}
	t.Render()
	return nil
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported encoding %q", format)
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func importNames(path []models.SerializedInjector) string {
	names := make([]string, len(path))
	for i, imp := range path {
		names[i] = imp.Name
	}
	return strings.Join(names, " > ")
}

func flagNames(flags models.DependencyFlags) string {
	var names []string
	if flags.Optional {
		names = append(names, "optional")
	}
	if flags.Self {
		names = append(names, "self")
	}
	if flags.SkipSelf {
		names = append(names, "skipSelf")
	}
	if flags.Host {
		names = append(names, "host")
	}
	return strings.Join(names, ", ")
}
