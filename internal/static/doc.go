// Package static serves files for htinter from a directory tree.
//
// Files are read from an [fs.FS], usually [os.DirFS] of the working
// directory. Files whose extension is exactly "html" get the bridge script
// tag inserted before their first "</head>". The content type comes from a
// fixed extension table, see [Lookup].
package static
