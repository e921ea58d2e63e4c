// Package registry holds the three static dispatch tables codegen
// consults when lowering a Call or method invocation: built-in functions,
// imported-module functions, and methods on native lattice types. Each
// entry is pure metadata — no dependency on ast, types, or codegen — so
// the tables can be inspected by earlier passes (e.g. the import
// resolver deciding a call is satisfied by zig_runtime) without pulling
// in the rest of the compiler.
package registry

// BuiltinEntry describes one free-standing built-in function, e.g. len()
// or print(). ZigSymbol is the runtime function codegen emits a call to.
type BuiltinEntry struct {
	Name             string
	MinArgs          int
	MaxArgs          int // -1 for variadic
	IsPure           bool
	NeedsAllocator   bool
	ZigSymbol        string
}

// ModuleFuncEntry describes one function reachable as `module.func(...)`.
type ModuleFuncEntry struct {
	Module         string
	Func           string
	MinArgs        int
	MaxArgs        int
	IsPure         bool
	NeedsAllocator bool
	ZigSymbol      string
}

// MethodEntry describes one `receiver.method(...)` call on a native type.
type MethodEntry struct {
	Type           string // native lattice type name, e.g. "list"
	Method         string
	MinArgs        int
	MaxArgs        int
	Mutates        bool // mutates the receiver in place
	NeedsAllocator bool
	ZigSymbol      string
}

// Builtins is keyed by function name.
var Builtins = make(map[string]*BuiltinEntry)

// ModuleFunctions is keyed by "module.func".
var ModuleFunctions = make(map[string]*ModuleFuncEntry)

// Methods is keyed by "type.method".
var Methods = make(map[string]*MethodEntry)

func init() {
	registerBuiltinScalars()
	registerBuiltinCollectionsCtors()
	registerBuiltinIntrospection()
	registerBuiltinIO()

	registerMathModule()
	registerJSONModule()
	registerOSModule()
	registerSysModule()
	registerCollectionsModule()
	registerIOModule()
	registerHashlibModule()
	registerSqlite3Module()
	registerReModule()
	registerRandomModule()
	registerTimeModule()
	registerItertoolsModule()

	registerListMethods()
	registerDictMethods()
	registerSetMethods()
	registerStringMethods()
	registerDequeMethods()
	registerCounterMethods()
	registerStringIOMethods()
	registerBytesIOMethods()
	registerFileMethods()
	registerHashObjectMethods()
	registerSqliteConnectionMethods()
	registerSqliteCursorMethods()
}

// IsBuiltin reports whether name is a registered built-in function.
func IsBuiltin(name string) bool {
	_, ok := Builtins[name]
	return ok
}

// LookupModuleFunc resolves "module.func" in the module-function table.
func LookupModuleFunc(module, fn string) (*ModuleFuncEntry, bool) {
	e, ok := ModuleFunctions[module+"."+fn]
	return e, ok
}

// LookupMethod resolves a method call for a native lattice type.
func LookupMethod(typ, method string) (*MethodEntry, bool) {
	e, ok := Methods[typ+"."+method]
	return e, ok
}

func b(name string, min, max int, pure, alloc bool, sym string) {
	Builtins[name] = &BuiltinEntry{Name: name, MinArgs: min, MaxArgs: max, IsPure: pure, NeedsAllocator: alloc, ZigSymbol: sym}
}

func registerBuiltinScalars() {
	b("abs", 1, 1, true, false, "pyzig_abs")
	b("round", 1, 2, true, false, "pyzig_round")
	b("pow", 2, 3, true, false, "pyzig_pow")
	b("divmod", 2, 2, true, false, "pyzig_divmod")
	b("min", 1, -1, true, false, "pyzig_min")
	b("max", 1, -1, true, false, "pyzig_max")
	b("sum", 1, 2, true, false, "pyzig_sum")
	b("int", 0, 2, true, false, "pyzig_to_int")
	b("float", 0, 1, true, false, "pyzig_to_float")
	b("str", 0, 1, true, true, "pyzig_to_str")
	b("bool", 0, 1, true, false, "pyzig_to_bool")
	b("chr", 1, 1, true, true, "pyzig_chr")
	b("ord", 1, 1, true, false, "pyzig_ord")
	b("hex", 1, 1, true, true, "pyzig_hex")
	b("oct", 1, 1, true, true, "pyzig_oct")
	b("bin", 1, 1, true, true, "pyzig_bin")
}

func registerBuiltinCollectionsCtors() {
	b("list", 0, 1, true, true, "pyzig_list_new")
	b("tuple", 0, 1, true, true, "pyzig_tuple_new")
	b("set", 0, 1, true, true, "pyzig_set_new")
	b("frozenset", 0, 1, true, true, "pyzig_frozenset_new")
	b("dict", 0, 1, true, true, "pyzig_dict_new")
	b("bytes", 0, 1, true, true, "pyzig_bytes_new")
	b("bytearray", 0, 1, true, true, "pyzig_bytearray_new")
	b("range", 1, 3, true, false, "pyzig_range_new")
	b("sorted", 1, 2, true, true, "pyzig_sorted")
	b("reversed", 1, 1, true, true, "pyzig_reversed")
	b("enumerate", 1, 2, true, true, "pyzig_enumerate")
	b("zip", 1, -1, true, true, "pyzig_zip")
	b("map", 2, -1, true, true, "pyzig_map")
	b("filter", 2, 2, true, true, "pyzig_filter")
}

func registerBuiltinIntrospection() {
	b("len", 1, 1, true, false, "pyzig_len")
	b("type", 1, 1, true, false, "pyzig_type")
	b("isinstance", 2, 2, true, false, "pyzig_isinstance")
	b("issubclass", 2, 2, true, false, "pyzig_issubclass")
	b("repr", 1, 1, true, true, "pyzig_repr")
	b("hash", 1, 1, true, false, "pyzig_hash")
	b("id", 1, 1, true, false, "pyzig_id")
	b("getattr", 2, 3, true, false, "pyzig_getattr")
	b("setattr", 3, 3, false, false, "pyzig_setattr")
	b("hasattr", 2, 2, true, false, "pyzig_hasattr")
	b("callable", 1, 1, true, false, "pyzig_callable")
	b("all", 1, 1, true, false, "pyzig_all")
	b("any", 1, 1, true, false, "pyzig_any")
}

func registerBuiltinIO() {
	b("print", 0, -1, false, false, "pyzig_print")
	b("input", 0, 1, false, true, "pyzig_input")
	b("open", 1, 2, false, true, "pyzig_file_open")
}

func mf(module, fn string, min, max int, pure, alloc bool, sym string) {
	e := &ModuleFuncEntry{Module: module, Func: fn, MinArgs: min, MaxArgs: max, IsPure: pure, NeedsAllocator: alloc, ZigSymbol: sym}
	ModuleFunctions[module+"."+fn] = e
}

func registerMathModule() {
	mf("math", "sqrt", 1, 1, true, false, "pyzig_math_sqrt")
	mf("math", "floor", 1, 1, true, false, "pyzig_math_floor")
	mf("math", "ceil", 1, 1, true, false, "pyzig_math_ceil")
	mf("math", "trunc", 1, 1, true, false, "pyzig_math_trunc")
	mf("math", "pow", 2, 2, true, false, "pyzig_math_pow")
	mf("math", "log", 1, 2, true, false, "pyzig_math_log")
	mf("math", "log2", 1, 1, true, false, "pyzig_math_log2")
	mf("math", "log10", 1, 1, true, false, "pyzig_math_log10")
	mf("math", "exp", 1, 1, true, false, "pyzig_math_exp")
	mf("math", "sin", 1, 1, true, false, "pyzig_math_sin")
	mf("math", "cos", 1, 1, true, false, "pyzig_math_cos")
	mf("math", "tan", 1, 1, true, false, "pyzig_math_tan")
	mf("math", "gcd", 2, 2, true, false, "pyzig_math_gcd")
	mf("math", "isnan", 1, 1, true, false, "pyzig_math_isnan")
	mf("math", "isinf", 1, 1, true, false, "pyzig_math_isinf")
}

func registerJSONModule() {
	mf("json", "dumps", 1, 2, true, true, "pyzig_json_dumps")
	mf("json", "loads", 1, 1, true, true, "pyzig_json_loads")
}

func registerOSModule() {
	mf("os", "getcwd", 0, 0, false, true, "pyzig_os_getcwd")
	mf("os", "listdir", 0, 1, false, true, "pyzig_os_listdir")
	mf("os", "mkdir", 1, 1, false, false, "pyzig_os_mkdir")
	mf("os", "remove", 1, 1, false, false, "pyzig_os_remove")
	mf("os", "getenv", 1, 2, false, true, "pyzig_os_getenv")
	mf("os.path", "join", 1, -1, true, true, "pyzig_ospath_join")
	mf("os.path", "exists", 1, 1, false, false, "pyzig_ospath_exists")
	mf("os.path", "basename", 1, 1, true, true, "pyzig_ospath_basename")
	mf("os.path", "dirname", 1, 1, true, true, "pyzig_ospath_dirname")
}

func registerSysModule() {
	mf("sys", "exit", 0, 1, false, false, "pyzig_sys_exit")
}

func registerCollectionsModule() {
	mf("collections", "deque", 0, 2, true, true, "pyzig_deque_new")
	mf("collections", "Counter", 0, 1, true, true, "pyzig_counter_new")
	mf("collections", "defaultdict", 0, 1, true, true, "pyzig_dict_new")
}

func registerIOModule() {
	mf("io", "StringIO", 0, 1, true, true, "pyzig_stringio_new")
	mf("io", "BytesIO", 0, 1, true, true, "pyzig_bytesio_new")
}

func registerHashlibModule() {
	mf("hashlib", "md5", 0, 1, true, true, "pyzig_hash_new_md5")
	mf("hashlib", "sha1", 0, 1, true, true, "pyzig_hash_new_sha1")
	mf("hashlib", "sha256", 0, 1, true, true, "pyzig_hash_new_sha256")
}

func registerSqlite3Module() {
	mf("sqlite3", "connect", 1, 1, false, true, "pyzig_sqlite_connect")
}

func registerReModule() {
	mf("re", "match", 2, 3, true, true, "pyzig_re_match")
	mf("re", "search", 2, 3, true, true, "pyzig_re_search")
	mf("re", "findall", 2, 3, true, true, "pyzig_re_findall")
	mf("re", "sub", 3, 4, true, true, "pyzig_re_sub")
	mf("re", "split", 2, 3, true, true, "pyzig_re_split")
}

func registerRandomModule() {
	mf("random", "random", 0, 0, false, false, "pyzig_random_random")
	mf("random", "randint", 2, 2, false, false, "pyzig_random_randint")
	mf("random", "choice", 1, 1, false, false, "pyzig_random_choice")
	mf("random", "shuffle", 1, 1, false, false, "pyzig_random_shuffle")
	mf("random", "seed", 0, 1, false, false, "pyzig_random_seed")
}

func registerTimeModule() {
	mf("time", "time", 0, 0, false, false, "pyzig_time_time")
	mf("time", "sleep", 1, 1, false, false, "pyzig_time_sleep")
	mf("time", "monotonic", 0, 0, false, false, "pyzig_time_monotonic")
}

func registerItertoolsModule() {
	mf("itertools", "chain", 0, -1, true, true, "pyzig_itertools_chain")
	mf("itertools", "count", 0, 2, true, true, "pyzig_itertools_count")
	mf("itertools", "product", 0, -1, true, true, "pyzig_itertools_product")
	mf("itertools", "islice", 2, 4, true, true, "pyzig_itertools_islice")
}

func meth(typ, method string, min, max int, mutates, alloc bool, sym string) {
	e := &MethodEntry{Type: typ, Method: method, MinArgs: min, MaxArgs: max, Mutates: mutates, NeedsAllocator: alloc, ZigSymbol: sym}
	Methods[typ+"."+method] = e
}

func registerListMethods() {
	meth("list", "append", 1, 1, true, true, "pyzig_list_append")
	meth("list", "extend", 1, 1, true, true, "pyzig_list_extend")
	meth("list", "insert", 2, 2, true, true, "pyzig_list_insert")
	meth("list", "remove", 1, 1, true, false, "pyzig_list_remove")
	meth("list", "pop", 0, 1, true, false, "pyzig_list_pop")
	meth("list", "clear", 0, 0, true, false, "pyzig_list_clear")
	meth("list", "index", 1, 3, false, false, "pyzig_list_index")
	meth("list", "count", 1, 1, false, false, "pyzig_list_count")
	meth("list", "sort", 0, 0, true, false, "pyzig_list_sort")
	meth("list", "reverse", 0, 0, true, false, "pyzig_list_reverse")
	meth("list", "copy", 0, 0, false, true, "pyzig_list_copy")
}

func registerDictMethods() {
	meth("dict", "get", 1, 2, false, false, "pyzig_dict_get")
	meth("dict", "keys", 0, 0, false, true, "pyzig_dict_keys")
	meth("dict", "values", 0, 0, false, true, "pyzig_dict_values")
	meth("dict", "items", 0, 0, false, true, "pyzig_dict_items")
	meth("dict", "pop", 1, 2, true, false, "pyzig_dict_pop")
	meth("dict", "update", 1, 1, true, false, "pyzig_dict_update")
	meth("dict", "setdefault", 1, 2, true, false, "pyzig_dict_setdefault")
	meth("dict", "clear", 0, 0, true, false, "pyzig_dict_clear")
	meth("dict", "copy", 0, 0, false, true, "pyzig_dict_copy")
}

func registerSetMethods() {
	meth("set", "add", 1, 1, true, true, "pyzig_set_add")
	meth("set", "remove", 1, 1, true, false, "pyzig_set_remove")
	meth("set", "discard", 1, 1, true, false, "pyzig_set_discard")
	meth("set", "pop", 0, 0, true, false, "pyzig_set_pop")
	meth("set", "clear", 0, 0, true, false, "pyzig_set_clear")
	meth("set", "union", 1, -1, false, true, "pyzig_set_union")
	meth("set", "intersection", 1, -1, false, true, "pyzig_set_intersection")
	meth("set", "difference", 1, -1, false, true, "pyzig_set_difference")
}

func registerStringMethods() {
	meth("string", "upper", 0, 0, false, true, "pyzig_str_upper")
	meth("string", "lower", 0, 0, false, true, "pyzig_str_lower")
	meth("string", "strip", 0, 1, false, true, "pyzig_str_strip")
	meth("string", "split", 0, 2, false, true, "pyzig_str_split")
	meth("string", "join", 1, 1, false, true, "pyzig_str_join")
	meth("string", "replace", 2, 3, false, true, "pyzig_str_replace")
	meth("string", "find", 1, 3, false, false, "pyzig_str_find")
	meth("string", "startswith", 1, 1, false, false, "pyzig_str_startswith")
	meth("string", "endswith", 1, 1, false, false, "pyzig_str_endswith")
	meth("string", "format", 0, -1, false, true, "pyzig_str_format")
	meth("string", "encode", 0, 1, false, true, "pyzig_str_encode")
}

func registerDequeMethods() {
	meth("deque", "append", 1, 1, true, true, "pyzig_deque_append")
	meth("deque", "appendleft", 1, 1, true, true, "pyzig_deque_appendleft")
	meth("deque", "pop", 0, 0, true, false, "pyzig_deque_pop")
	meth("deque", "popleft", 0, 0, true, false, "pyzig_deque_popleft")
	meth("deque", "extend", 1, 1, true, true, "pyzig_deque_extend")
}

func registerCounterMethods() {
	meth("counter", "most_common", 0, 1, false, true, "pyzig_counter_most_common")
	meth("counter", "update", 1, 1, true, false, "pyzig_counter_update")
}

func registerStringIOMethods() {
	meth("stringio", "write", 1, 1, true, false, "pyzig_stringio_write")
	meth("stringio", "getvalue", 0, 0, false, true, "pyzig_stringio_getvalue")
}

func registerBytesIOMethods() {
	meth("bytesio", "write", 1, 1, true, false, "pyzig_bytesio_write")
	meth("bytesio", "getvalue", 0, 0, false, true, "pyzig_bytesio_getvalue")
}

func registerFileMethods() {
	meth("file", "read", 0, 1, true, true, "pyzig_file_read")
	meth("file", "readline", 0, 0, true, true, "pyzig_file_readline")
	meth("file", "readlines", 0, 0, true, true, "pyzig_file_readlines")
	meth("file", "write", 1, 1, true, false, "pyzig_file_write")
	meth("file", "close", 0, 0, true, false, "pyzig_file_close")
}

func registerHashObjectMethods() {
	meth("hash_object", "update", 1, 1, true, false, "pyzig_hash_update")
	meth("hash_object", "hexdigest", 0, 0, false, true, "pyzig_hash_hexdigest")
	meth("hash_object", "digest", 0, 0, false, true, "pyzig_hash_digest")
}

func registerSqliteConnectionMethods() {
	meth("sqlite_connection", "cursor", 0, 0, false, true, "pyzig_sqlite_cursor")
	meth("sqlite_connection", "commit", 0, 0, true, false, "pyzig_sqlite_commit")
	meth("sqlite_connection", "close", 0, 0, true, false, "pyzig_sqlite_close_conn")
	meth("sqlite_connection", "execute", 1, 2, true, false, "pyzig_sqlite_conn_execute")
}

func registerSqliteCursorMethods() {
	meth("sqlite_cursor", "execute", 1, 2, true, false, "pyzig_sqlite_cursor_execute")
	meth("sqlite_cursor", "fetchone", 0, 0, true, true, "pyzig_sqlite_fetchone")
	meth("sqlite_cursor", "fetchall", 0, 0, true, true, "pyzig_sqlite_fetchall")
	meth("sqlite_cursor", "fetchmany", 0, 1, true, true, "pyzig_sqlite_fetchmany")
	meth("sqlite_cursor", "close", 0, 0, true, false, "pyzig_sqlite_close_cursor")
}
