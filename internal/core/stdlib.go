package core

import "strings"

// IsStdlibModule reports whether the import name refers to a Python
// standard-library module, which is never an installation candidate.
func IsStdlibModule(name string) bool {
	_, ok := stdlibModules[strings.TrimSpace(name)]
	return ok
}

// stdlibModules is a static snapshot of CPython's standard-library
// module names (union of 3.8 through 3.12, including Windows-only and
// deprecated modules so sources written for any platform filter
// correctly).
var stdlibModules = buildStdlibSet()

func buildStdlibSet() map[string]struct{} {
	names := []string{
		"__future__", "abc", "aifc", "argparse", "array", "ast", "asynchat",
		"asyncio", "asyncore", "atexit", "audioop", "base64", "bdb",
		"binascii", "binhex", "bisect", "builtins", "bz2", "calendar", "cgi",
		"cgitb", "chunk", "cmath", "cmd", "code", "codecs", "codeop",
		"collections", "colorsys", "compileall", "concurrent", "configparser",
		"contextlib", "contextvars", "copy", "copyreg", "crypt", "csv",
		"ctypes", "curses", "dataclasses", "datetime", "dbm", "decimal",
		"difflib", "dis", "distutils", "doctest", "email", "encodings",
		"ensurepip", "enum", "errno", "faulthandler", "fcntl", "filecmp",
		"fileinput", "fnmatch", "formatter", "fractions", "ftplib",
		"functools", "gc", "getopt", "getpass", "gettext", "glob", "graphlib",
		"grp", "gzip", "hashlib", "heapq", "hmac", "html", "http", "idlelib",
		"imaplib", "imghdr", "imp", "importlib", "inspect", "io", "ipaddress",
		"itertools", "json", "keyword", "lib2to3", "linecache", "locale",
		"logging", "lzma", "mailbox", "mailcap", "marshal", "math",
		"mimetypes", "mmap", "modulefinder", "msilib", "msvcrt",
		"multiprocessing", "netrc", "nis", "nntplib", "numbers", "operator",
		"optparse", "os", "ossaudiodev", "parser", "pathlib", "pdb", "pickle",
		"pickletools", "pipes", "pkgutil", "platform", "plistlib", "poplib",
		"posix", "pprint", "profile", "pstats", "pty", "pwd", "py_compile",
		"pyclbr", "pydoc", "pyexpat", "queue", "quopri", "random", "re",
		"readline", "reprlib", "resource", "rlcompleter", "runpy", "sched",
		"secrets", "select", "selectors", "shelve", "shlex", "shutil",
		"signal", "site", "smtpd", "smtplib", "sndhdr", "socket",
		"socketserver", "spwd", "sqlite3", "ssl", "stat", "statistics",
		"string", "stringprep", "struct", "subprocess", "sunau", "symtable",
		"sys", "sysconfig", "syslog", "tabnanny", "tarfile", "telnetlib",
		"tempfile", "termios", "textwrap", "this", "threading", "time",
		"timeit", "tkinter", "token", "tokenize", "tomllib", "trace",
		"traceback", "tracemalloc", "tty", "turtle", "turtledemo", "types",
		"typing", "unicodedata", "unittest", "urllib", "uu", "uuid", "venv",
		"warnings", "wave", "weakref", "webbrowser", "winreg", "winsound",
		"wsgiref", "xdrlib", "xml", "xmlrpc", "zipapp", "zipfile",
		"zipimport", "zlib", "zoneinfo",
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
