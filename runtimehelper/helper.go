package runtimehelper

import (
	"fmt"

	"github.com/clruntim/coredbg/dbgerr"
)

/*
MaxIndirections is the maximum number of reference hops Dereference
will follow before giving up with dbgerr.KindTooManyIndirections. The
original implementation's i_cor_debug_helper.cc carries the same cap.
*/
const MaxIndirections = 10

/*
Dereference follows up to MaxIndirections reference hops and returns
the final, non-reference value. If a null reference is encountered the
returned value still reflects the null and isNull is true.
*/
func Dereference(v Value) (result Value, isNull bool, err error) {
	current := v

	for i := 0; i < MaxIndirections; i++ {
		if !current.IsReference() {
			return current, false, nil
		}

		if current.IsNull() {
			return current, true, nil
		}

		next, ok, derefErr := current.Dereference()
		if derefErr != nil {
			return nil, false, dbgerr.Wrap(dbgerr.KindUnresolvable, "runtimehelper.Dereference", derefErr)
		}

		if !ok {
			return current, false, nil
		}

		current = next
	}

	return nil, false, dbgerr.New(dbgerr.KindTooManyIndirections, "runtimehelper.Dereference",
		fmt.Sprintf("exceeded %d indirection hops", MaxIndirections))
}

/*
Unbox returns the identity of v if it is not a boxed value, or the
inner value if it is.
*/
func Unbox(v Value) (Value, error) {
	inner, err := v.Unbox()
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindUnresolvable, "runtimehelper.Unbox", err)
	}
	return inner, nil
}

/*
DereferenceAndUnbox composes Dereference and Unbox, which is the
sequence nearly every value-model consumer actually wants.
*/
func DereferenceAndUnbox(v Value) (result Value, isNull bool, err error) {
	deref, isNull, err := Dereference(v)
	if err != nil || isNull {
		return deref, isNull, err
	}

	unboxed, err := Unbox(deref)
	if err != nil {
		return nil, false, err
	}

	return unboxed, false, nil
}

/*
ModuleShortName returns the short display name of a module, or "" if
module is nil.
*/
func ModuleShortName(m Module) string {
	if m == nil {
		return ""
	}
	return m.ShortName()
}

/*
MetadataImportFromModule returns the metadata importer of a module, or
nil if module is nil.
*/
func MetadataImportFromModule(m Module) MetadataImporter {
	if m == nil {
		return nil
	}
	return m.MetadataImport()
}

/*
FieldName looks up a field's name via the owning module's metadata
importer, surfacing dbgerr.KindUnresolvable on failure.
*/
func FieldName(importer MetadataImporter, token uint32) (string, error) {
	name, err := importer.FieldName(token)
	if err != nil {
		return "", dbgerr.Wrap(dbgerr.KindUnresolvable, "runtimehelper.FieldName", err)
	}
	return name, nil
}

/*
ParamName looks up the declared name of a method parameter, returning
ok=false (never an error) when no name is recorded - callers fall back
to a synthesized name in that case, per spec.md §4.3.
*/
func ParamName(importer MetadataImporter, methodToken uint32, ordinal int) (string, bool) {
	return importer.ParamName(methodToken, ordinal)
}

/*
CreateStrongHandle promotes v to a handle which survives a runtime
Continue, via the given collaborator.
*/
func CreateStrongHandle(creator StrongHandleCreator, v Value) (Value, error) {
	handle, err := creator.CreateStrongHandle(v)
	if err != nil {
		return nil, dbgerr.Wrap(dbgerr.KindUnresolvable, "runtimehelper.CreateStrongHandle", err)
	}
	return handle, nil
}
