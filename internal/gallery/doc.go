// Package gallery runs the two simplegallery commands against a directory.
//
// prepare scans the directory, stages the viewer assets under _web and writes
// the editable sg.json manifest. process reads the manifest back, renders a
// thumbnail and a medium rendition of every listed image, and writes
// _web/index.html. Both commands can bundle the originals into _web/sg.tgz.
//
// A Pipeline holds the collaborators (tool runner, EXIF reader, metrics) and
// dispatches one Command per call to Run. Each command holds an advisory lock
// on _web/.sg.lock while it writes.
package gallery
