package runtimehelper

import (
	"fmt"

	"github.com/clruntim/coredbg/dbgerr"
)

/*
elementTypeNames maps a primitive ElementType to its canonical display
name.
*/
var elementTypeNames = map[ElementType]string{
	ElementVoid:    "System.Void",
	ElementBoolean: "System.Boolean",
	ElementChar:    "System.Char",
	ElementI1:      "System.SByte",
	ElementU1:      "System.Byte",
	ElementI2:      "System.Int16",
	ElementU2:      "System.UInt16",
	ElementI4:      "System.Int32",
	ElementU4:      "System.UInt32",
	ElementI8:      "System.Int64",
	ElementU8:      "System.UInt64",
	ElementR4:      "System.Single",
	ElementR8:      "System.Double",
	ElementString:  "System.String",
	ElementObject:  "System.Object",
	ElementI:       "System.IntPtr",
	ElementU:       "System.UIntPtr",
}

/*
sigReader walks a compressed ECMA-335 metadata signature.
*/
type sigReader struct {
	buf []byte
	pos int
}

func (r *sigReader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, dbgerr.New(dbgerr.KindUnresolvable, "runtimehelper.Signature", "unexpected end of signature")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

/*
readCompressedUint decodes an ECMA-335 compressed unsigned integer: a
one, two, or four byte encoding selected by the high bits of the first
byte.
*/
func (r *sigReader) readCompressedUint() (uint32, error) {
	b0, err := r.readByte()
	if err != nil {
		return 0, err
	}

	if b0&0x80 == 0 {
		return uint32(b0), nil
	}

	if b0&0xC0 == 0x80 {
		b1, err := r.readByte()
		if err != nil {
			return 0, err
		}
		return (uint32(b0&0x3F) << 8) | uint32(b1), nil
	}

	b1, err := r.readByte()
	if err != nil {
		return 0, err
	}
	b2, err := r.readByte()
	if err != nil {
		return 0, err
	}
	b3, err := r.readByte()
	if err != nil {
		return 0, err
	}
	return (uint32(b0&0x1F) << 24) | (uint32(b1) << 16) | (uint32(b2) << 8) | uint32(b3), nil
}

/*
TypeStringFromSignature parses a compressed metadata signature,
returning the canonical type-string rendering and the number of bytes
consumed. It recognizes the element types documented in spec.md §4.1:
primitives, SZARRAY/ARRAY (with rank and skipped size/lower-bound
prefixes), GENERICINST (recursive on the type-argument count), and
CLASS/VALUETYPE followed by a token resolved through the given
importer. It also accepts VAR/MVAR generic parameters (rendered by
index) and BYREF/PTR (the pointee's type with a "&" or "*" suffix).
Any other element type is reported as
dbgerr.KindNotImplemented, surfaced upward without guessing, per
spec.md §4.1's stated failure mode.
*/
func TypeStringFromSignature(sig []byte, importer MetadataImporter) (string, int, error) {
	r := &sigReader{buf: sig}
	s, err := parseType(r, importer)
	if err != nil {
		return "", 0, err
	}
	return s, r.pos, nil
}

func parseType(r *sigReader, importer MetadataImporter) (string, error) {
	et, err := r.readByte()
	if err != nil {
		return "", err
	}

	elementType := ElementType(et)

	if name, ok := elementTypeNames[elementType]; ok {
		return name, nil
	}

	switch elementType {

	case ElementSZArray:
		inner, err := parseType(r, importer)
		if err != nil {
			return "", err
		}
		return inner + "[]", nil

	case ElementArray:
		return parseArrayType(r, importer)

	case ElementGenericInst:
		return parseGenericInst(r, importer)

	case ElementClass, ElementValueType:
		token, err := r.readCompressedUint()
		if err != nil {
			return "", err
		}
		return resolveTypeToken(importer, token)

	case ElementVar, ElementMVar:
		idx, err := r.readCompressedUint()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("!%d", idx), nil

	case ElementByRef, ElementPtr:
		inner, err := parseType(r, importer)
		if err != nil {
			return "", err
		}
		suffix := "*"
		if elementType == ElementByRef {
			suffix = "&"
		}
		return inner + suffix, nil
	}

	return "", dbgerr.New(dbgerr.KindNotImplemented, "runtimehelper.TypeStringFromSignature",
		fmt.Sprintf("unsupported element type 0x%x", et))
}

/*
parseArrayType handles the ARRAY element type: element type, rank,
then a list of sizes and a list of (signed) lower bounds, both of
which this core skips over since only the type string and rank matter
for display.
*/
func parseArrayType(r *sigReader, importer MetadataImporter) (string, error) {
	inner, err := parseType(r, importer)
	if err != nil {
		return "", err
	}

	rank, err := r.readCompressedUint()
	if err != nil {
		return "", err
	}

	numSizes, err := r.readCompressedUint()
	if err != nil {
		return "", err
	}
	for i := uint32(0); i < numSizes; i++ {
		if _, err := r.readCompressedUint(); err != nil {
			return "", err
		}
	}

	numLoBounds, err := r.readCompressedUint()
	if err != nil {
		return "", err
	}
	for i := uint32(0); i < numLoBounds; i++ {
		if _, err := r.readCompressedUint(); err != nil {
			return "", err
		}
	}

	if rank == 0 {
		rank = 1
	}

	commas := ""
	for i := uint32(1); i < rank; i++ {
		commas += ","
	}

	return fmt.Sprintf("%s[%s]", inner, commas), nil
}

/*
parseGenericInst handles GENERICINST: a generic/value-type indicator,
the generic type definition, an argument count, and that many type
arguments, recursively parsed per spec.md §4.1.
*/
func parseGenericInst(r *sigReader, importer MetadataImporter) (string, error) {

	// Skip the CLASS/VALUETYPE byte that precedes the generic
	// definition token.
	if _, err := r.readByte(); err != nil {
		return "", err
	}

	token, err := r.readCompressedUint()
	if err != nil {
		return "", err
	}

	baseName, err := resolveTypeToken(importer, token)
	if err != nil {
		return "", err
	}

	argCount, err := r.readCompressedUint()
	if err != nil {
		return "", err
	}

	args := make([]string, 0, argCount)
	for i := uint32(0); i < argCount; i++ {
		argType, err := parseType(r, importer)
		if err != nil {
			return "", err
		}
		args = append(args, argType)
	}

	result := baseName + "<"
	for i, a := range args {
		if i > 0 {
			result += ", "
		}
		result += a
	}
	result += ">"

	return result, nil
}

/*
resolveTypeToken resolves a CLASS/VALUETYPE token through the
importer, trying a typedef lookup first and falling back to typeref -
the teacher-neutral way of saying "the token may point into either
table depending on whether the type is defined in this module or
imported".
*/
func resolveTypeToken(importer MetadataImporter, token uint32) (string, error) {
	if importer == nil {
		return "", dbgerr.New(dbgerr.KindUnresolvable, "runtimehelper.resolveTypeToken", "no metadata importer available")
	}

	if name, err := importer.TypeDefName(token); err == nil {
		return name, nil
	}

	name, err := importer.TypeRefName(token)
	if err != nil {
		return "", dbgerr.Wrap(dbgerr.KindUnresolvable, "runtimehelper.resolveTypeToken", err)
	}

	return name, nil
}
