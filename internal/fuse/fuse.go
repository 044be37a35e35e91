//go:build linux
// +build linux

// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package fuse exposes a mounted ECS150FS image as a read-write FUSE
// filesystem: a flat directory of files, no subdirectories, matching the
// image's own root-directory model.
package fuse

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/ostafen/ecs150fs/fs"
)

// ImageFS roots a FUSE tree at a single mounted ECS150FS image.
type ImageFS struct {
	mtx  sync.Mutex
	fsys *fs.FileSystem
}

// New wraps an already-mounted filesystem for serving over FUSE.
func New(fsys *fs.FileSystem) *ImageFS {
	return &ImageFS{fsys: fsys}
}

func (f *ImageFS) Root() (fusefs.Node, error) {
	return &Dir{fs: f}, nil
}

// Dir is the single flat root directory every ECS150FS image has.
type Dir struct {
	fs *ImageFS
}

func (*Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0755
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	d.fs.mtx.Lock()
	defer d.fs.mtx.Unlock()

	entries, err := d.fs.fsys.Ls()
	if err != nil {
		return nil, fuse.EIO
	}
	for _, e := range entries {
		if e.Name == name {
			return &File{fs: d.fs, name: name}, nil
		}
	}
	return nil, fuse.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mtx.Lock()
	defer d.fs.mtx.Unlock()

	entries, err := d.fs.fsys.Ls()
	if err != nil {
		return nil, fuse.EIO
	}

	out := make([]fuse.Dirent, len(entries))
	for i, e := range entries {
		out[i] = fuse.Dirent{Inode: uint64(i) + 1, Name: e.Name, Type: fuse.DT_File}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (d *Dir) Create(ctx context.Context, req *fusefs.CreateRequest, resp *fusefs.CreateResponse) (fusefs.Node, fusefs.Handle, error) {
	d.fs.mtx.Lock()
	defer d.fs.mtx.Unlock()

	if err := d.fs.fsys.Create(req.Name); err != nil {
		return nil, nil, fuse.EEXIST
	}
	n := &File{fs: d.fs, name: req.Name}
	h, err := n.open()
	if err != nil {
		return nil, nil, fuse.EIO
	}
	return n, h, nil
}

func (d *Dir) Remove(ctx context.Context, req *fusefs.RemoveRequest) error {
	d.fs.mtx.Lock()
	defer d.fs.mtx.Unlock()

	if err := d.fs.fsys.Delete(req.Name); err != nil {
		return fuse.EIO
	}
	return nil
}

// File is a single ECS150FS file, opened and closed per FUSE handle.
type File struct {
	fs   *ImageFS
	name string
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	f.fs.mtx.Lock()
	defer f.fs.mtx.Unlock()

	entries, err := f.fs.fsys.Ls()
	if err != nil {
		return fuse.EIO
	}
	for _, e := range entries {
		if e.Name == f.name {
			a.Mode = 0644
			a.Size = uint64(e.Size)
			a.Mtime = time.Now()
			return nil
		}
	}
	return fuse.ENOENT
}

func (f *File) open() (*Handle, error) {
	fd, err := f.fs.fsys.Open(f.name)
	if err != nil {
		return nil, err
	}
	return &Handle{fs: f.fs, fd: fd}, nil
}

func (f *File) Open(ctx context.Context, req *fusefs.OpenRequest, resp *fusefs.OpenResponse) (fusefs.Handle, error) {
	f.fs.mtx.Lock()
	defer f.fs.mtx.Unlock()

	h, err := f.open()
	if err != nil {
		return nil, fuse.EIO
	}
	return h, nil
}

// Handle binds one ECS150FS descriptor to a FUSE open file handle.
type Handle struct {
	fs *ImageFS
	fd int
}

func (h *Handle) Read(ctx context.Context, req *fusefs.ReadRequest, resp *fusefs.ReadResponse) error {
	h.fs.mtx.Lock()
	defer h.fs.mtx.Unlock()

	if err := h.fs.fsys.Seek(h.fd, req.Offset); err != nil {
		return fuse.EIO
	}
	buf := make([]byte, req.Size)
	n, err := h.fs.fsys.Read(h.fd, buf)
	if err != nil {
		return fuse.EIO
	}
	resp.Data = buf[:n]
	return nil
}

func (h *Handle) Write(ctx context.Context, req *fusefs.WriteRequest, resp *fusefs.WriteResponse) error {
	h.fs.mtx.Lock()
	defer h.fs.mtx.Unlock()

	if err := h.fs.fsys.Seek(h.fd, req.Offset); err != nil {
		return fuse.EIO
	}
	n, err := h.fs.fsys.Write(h.fd, req.Data)
	if err != nil {
		return fuse.EIO
	}
	resp.Size = n
	return nil
}

func (h *Handle) Release(ctx context.Context, req *fusefs.ReleaseRequest) error {
	h.fs.mtx.Lock()
	defer h.fs.mtx.Unlock()
	return h.fs.fsys.Close(h.fd)
}
