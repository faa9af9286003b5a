package commands

import lua "github.com/yuin/gopher-lua"

// stringsToTable builds a dense Lua array table from a string slice.
func stringsToTable(L *lua.LState, ss []string) *lua.LTable {
	tbl := L.CreateTable(len(ss), 0)
	for i, s := range ss {
		tbl.RawSetInt(i+1, lua.LString(s))
	}
	return tbl
}

// tableToStrings reads a dense Lua array table back into a string
// slice. ok is false if any array element isn't a string.
func tableToStrings(tbl *lua.LTable) (out []string, ok bool) {
	n := tbl.Len()
	out = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		v := tbl.RawGetInt(i)
		s, isStr := v.(lua.LString)
		if !isStr {
			return nil, false
		}
		out = append(out, string(s))
	}
	return out, true
}

// splitArgsTable splits a Lua table's dense array part into positional
// string args and its string-keyed entries into keyword string args,
// the convention `run` and `effect` both use for their optional
// trailing args table.
func splitArgsTable(tbl *lua.LTable) (positional []string, keyword map[string]string) {
	keyword = make(map[string]string)
	if tbl == nil {
		return nil, keyword
	}

	n := tbl.Len()
	positional = make([]string, n)
	for i := 1; i <= n; i++ {
		positional[i-1] = tbl.RawGetInt(i).String()
	}

	tbl.ForEach(func(k, v lua.LValue) {
		if ks, isStr := k.(lua.LString); isStr {
			keyword[string(ks)] = v.String()
		}
	})

	return positional, keyword
}

// optTable returns the table argument at idx, or nil if absent (the
// argument wasn't given at all) or explicitly lua.LNil.
func optTable(L *lua.LState, idx int) *lua.LTable {
	v := L.Get(idx)
	if v == lua.LNil {
		return nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	return tbl
}
