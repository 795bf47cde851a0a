package memdom

import (
	"fmt"
	"strings"
)

// propSpec describes an element property. Reflected properties read and
// write their attribute; the others hold live state seeded from it.
type propSpec struct {
	attr    string
	boolean bool
	reflect bool
}

var globalProps = map[string]propSpec{
	"id":        {attr: "id", reflect: true},
	"title":     {attr: "title", reflect: true},
	"lang":      {attr: "lang", reflect: true},
	"dir":       {attr: "dir", reflect: true},
	"hidden":    {attr: "hidden", boolean: true, reflect: true},
	"className": {attr: "class", reflect: true},
}

var (
	valueProp    = propSpec{attr: "value"}
	disabledProp = propSpec{attr: "disabled", boolean: true, reflect: true}
	nameProp     = propSpec{attr: "name", reflect: true}
	typeProp     = propSpec{attr: "type", reflect: true}
	placeholder  = propSpec{attr: "placeholder", reflect: true}
)

var tagProps = map[string]map[string]propSpec{
	"input": {
		"value":       valueProp,
		"checked":     {attr: "checked", boolean: true},
		"disabled":    disabledProp,
		"name":        nameProp,
		"type":        typeProp,
		"placeholder": placeholder,
	},
	"textarea": {
		"value":       valueProp,
		"disabled":    disabledProp,
		"name":        nameProp,
		"placeholder": placeholder,
	},
	"select": {
		"value":    valueProp,
		"disabled": disabledProp,
		"name":     nameProp,
	},
	"option": {
		"value":    {attr: "value", reflect: true},
		"selected": {attr: "selected", boolean: true},
		"disabled": disabledProp,
	},
	"button": {
		"value":    {attr: "value", reflect: true},
		"disabled": disabledProp,
		"name":     nameProp,
		"type":     typeProp,
	},
	"a": {
		"href":   {attr: "href", reflect: true},
		"target": {attr: "target", reflect: true},
		"rel":    {attr: "rel", reflect: true},
	},
	"img": {
		"src": {attr: "src", reflect: true},
		"alt": {attr: "alt", reflect: true},
	},
	"iframe": {
		"src": {attr: "src", reflect: true},
	},
	"label": {
		"htmlFor": {attr: "for", reflect: true},
	},
	"form": {
		"action": {attr: "action", reflect: true},
		"method": {attr: "method", reflect: true},
	},
}

func (e *Element) propSpec(name string) (propSpec, bool) {
	if spec, ok := tagProps[e.tag][name]; ok {
		return spec, true
	}
	spec, ok := globalProps[name]
	return spec, ok
}

// Property returns the value of a known property. Expando properties set
// through SetProperty are reported as well.
func (e *Element) Property(name string) (any, bool) {
	spec, ok := e.propSpec(name)
	if !ok {
		v, ok := e.props[name]
		return v, ok
	}
	if !spec.reflect {
		if v, ok := e.props[name]; ok {
			return v, true
		}
	}
	v, present := e.Attribute(spec.attr)
	if spec.boolean {
		return present, true
	}
	return v, true
}

// SetProperty assigns a property. Reflected properties update their
// attribute; boolean properties take the truthiness of value.
func (e *Element) SetProperty(name string, value any) {
	spec, known := e.propSpec(name)
	switch {
	case known && spec.reflect && spec.boolean:
		if truthy(value) {
			e.setAttr(spec.attr, "")
		} else {
			e.removeAttr(spec.attr)
		}
	case known && spec.reflect:
		e.setAttr(spec.attr, fmt.Sprint(value))
	case known && spec.boolean:
		e.setProp(name, truthy(value))
	case known:
		e.setProp(name, fmt.Sprint(value))
	default:
		e.setProp(name, value)
	}
	e.doc.record(e, OpSetProp, name, fmt.Sprint(value))
}

func (e *Element) setProp(name string, v any) {
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[name] = v
}

func (e *Element) removeAttr(name string) {
	for i, a := range e.attrs {
		if a.name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && !strings.EqualFold(x, "false")
	case int:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}
