package codec

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// serialize runs fn against a TBinaryProtocol over an in-memory transport and
// returns the accumulated bytes.
func serialize(ctx context.Context, fn func(w *structWriter)) ([]byte, error) {
	buf := thrift.NewTMemoryBuffer()
	proto := thrift.NewTBinaryProtocolConf(buf, &thrift.TConfiguration{})

	w := &structWriter{ctx: ctx, p: proto}
	fn(w)
	if w.err != nil {
		return nil, w.err
	}
	if err := proto.Flush(ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserialize wraps data in a read protocol.
func deserialize(ctx context.Context, data []byte) *structReader {
	buf := thrift.NewTMemoryBuffer()
	buf.Write(data)
	proto := thrift.NewTBinaryProtocolConf(buf, &thrift.TConfiguration{})
	return &structReader{ctx: ctx, p: proto}
}

// structWriter emits one Thrift struct field by field, carrying the first
// error so per-struct writers stay linear.
type structWriter struct {
	ctx context.Context
	p   thrift.TProtocol
	err error
}

func (w *structWriter) begin(name string) {
	if w.err == nil {
		w.err = w.p.WriteStructBegin(w.ctx, name)
	}
}

func (w *structWriter) end() {
	if w.err == nil {
		w.err = w.p.WriteFieldStop(w.ctx)
	}
	if w.err == nil {
		w.err = w.p.WriteStructEnd(w.ctx)
	}
}

func (w *structWriter) field(id int16, name string, typ thrift.TType, write func() error) {
	if w.err != nil {
		return
	}
	if w.err = w.p.WriteFieldBegin(w.ctx, name, typ, id); w.err != nil {
		return
	}
	if w.err = write(); w.err != nil {
		return
	}
	w.err = w.p.WriteFieldEnd(w.ctx)
}

// str writes a string field, omitting it when empty (absent optionals stay
// absent on the wire).
func (w *structWriter) str(id int16, name, v string) {
	if v == "" {
		return
	}
	w.field(id, name, thrift.STRING, func() error { return w.p.WriteString(w.ctx, v) })
}

func (w *structWriter) binary(id int16, name string, v []byte) {
	w.field(id, name, thrift.STRING, func() error { return w.p.WriteBinary(w.ctx, v) })
}

func (w *structWriter) i64(id int16, name string, v int64) {
	w.field(id, name, thrift.I64, func() error { return w.p.WriteI64(w.ctx, v) })
}

func (w *structWriter) optI64(id int16, name string, v *int64) {
	if v == nil {
		return
	}
	w.i64(id, name, *v)
}

func (w *structWriter) i32(id int16, name string, v int32) {
	w.field(id, name, thrift.I32, func() error { return w.p.WriteI32(w.ctx, v) })
}

func (w *structWriter) optI32(id int16, name string, v *int32) {
	if v == nil {
		return
	}
	w.i32(id, name, *v)
}

func (w *structWriter) boolean(id int16, name string, v bool) {
	w.field(id, name, thrift.BOOL, func() error { return w.p.WriteBool(w.ctx, v) })
}

func (w *structWriter) optBool(id int16, name string, v *bool) {
	if v == nil {
		return
	}
	w.boolean(id, name, *v)
}

func (w *structWriter) optDouble(id int16, name string, v *float64) {
	if v == nil {
		return
	}
	w.field(id, name, thrift.DOUBLE, func() error { return w.p.WriteDouble(w.ctx, *v) })
}

func (w *structWriter) i64List(id int16, name string, vs []int64) {
	if vs == nil {
		return
	}
	w.field(id, name, thrift.LIST, func() error {
		if err := w.p.WriteListBegin(w.ctx, thrift.I64, len(vs)); err != nil {
			return err
		}
		for _, v := range vs {
			if err := w.p.WriteI64(w.ctx, v); err != nil {
				return err
			}
		}
		return w.p.WriteListEnd(w.ctx)
	})
}

func (w *structWriter) strList(id int16, name string, vs []string) {
	if vs == nil {
		return
	}
	w.field(id, name, thrift.LIST, func() error {
		if err := w.p.WriteListBegin(w.ctx, thrift.STRING, len(vs)); err != nil {
			return err
		}
		for _, v := range vs {
			if err := w.p.WriteString(w.ctx, v); err != nil {
				return err
			}
		}
		return w.p.WriteListEnd(w.ctx)
	})
}

// structField writes a nested struct. fn is expected to begin/end the child.
func (w *structWriter) structField(id int16, name string, fn func()) {
	w.field(id, name, thrift.STRUCT, func() error {
		fn()
		return w.err
	})
}

// structList writes a list of nested structs. fn writes element i including
// begin/end.
func (w *structWriter) structList(id int16, name string, n int, fn func(i int)) {
	w.field(id, name, thrift.LIST, func() error {
		if err := w.p.WriteListBegin(w.ctx, thrift.STRUCT, n); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			fn(i)
			if w.err != nil {
				return w.err
			}
		}
		return w.p.WriteListEnd(w.ctx)
	})
}

// structReader walks one Thrift struct, dispatching each field by id. Fields
// the callback does not claim are skipped, keeping readers tolerant of newer
// layout revisions.
type structReader struct {
	ctx context.Context
	p   thrift.TProtocol
}

func (r *structReader) read(fn func(id int16, typ thrift.TType) (bool, error)) error {
	if _, err := r.p.ReadStructBegin(r.ctx); err != nil {
		return err
	}
	for {
		_, typ, id, err := r.p.ReadFieldBegin(r.ctx)
		if err != nil {
			return err
		}
		if typ == thrift.STOP {
			break
		}
		handled, err := fn(id, typ)
		if err != nil {
			return err
		}
		if !handled {
			if err := thrift.SkipDefaultDepth(r.ctx, r.p, typ); err != nil {
				return err
			}
		}
		if err := r.p.ReadFieldEnd(r.ctx); err != nil {
			return err
		}
	}
	return r.p.ReadStructEnd(r.ctx)
}

func (r *structReader) i64() (int64, error)     { return r.p.ReadI64(r.ctx) }
func (r *structReader) i32() (int32, error)     { return r.p.ReadI32(r.ctx) }
func (r *structReader) str() (string, error)    { return r.p.ReadString(r.ctx) }
func (r *structReader) boolean() (bool, error)  { return r.p.ReadBool(r.ctx) }
func (r *structReader) double() (float64, error) { return r.p.ReadDouble(r.ctx) }
func (r *structReader) bin() ([]byte, error)    { return r.p.ReadBinary(r.ctx) }

func (r *structReader) optI64() (*int64, error) {
	v, err := r.i64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *structReader) optI32() (*int32, error) {
	v, err := r.i32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *structReader) optBool() (*bool, error) {
	v, err := r.boolean()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *structReader) optDouble() (*float64, error) {
	v, err := r.double()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *structReader) i64ListRead() ([]int64, error) {
	_, n, err := r.p.ReadListBegin(r.ctx)
	if err != nil {
		return nil, err
	}
	vs := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.i64()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, r.p.ReadListEnd(r.ctx)
}

func (r *structReader) strListRead() ([]string, error) {
	_, n, err := r.p.ReadListBegin(r.ctx)
	if err != nil {
		return nil, err
	}
	vs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.str()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, r.p.ReadListEnd(r.ctx)
}

// structListRead reads a list of structs, calling fn once per element.
func (r *structReader) structListRead(fn func() error) error {
	_, n, err := r.p.ReadListBegin(r.ctx)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return r.p.ReadListEnd(r.ctx)
}
