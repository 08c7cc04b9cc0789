package dwarf

import "github.com/eskaton/thyrion/pkg/utils"

// Tag identifies the kind of a debugging information entry (DW_TAG_*).
type Tag uint64

// Attr identifies a DIE attribute (DW_AT_*).
type Attr uint64

// Form identifies the on-disk encoding of an attribute's value (DW_FORM_*).
type Form uint64

// DWARF v2/v3 tag constants.
const (
	TagArrayType             Tag = 0x01
	TagClassType             Tag = 0x02
	TagEntryPoint            Tag = 0x03
	TagEnumerationType       Tag = 0x04
	TagFormalParameter       Tag = 0x05
	TagImportedDeclaration   Tag = 0x08
	TagLabel                 Tag = 0x0a
	TagLexicalBlock          Tag = 0x0b
	TagMember                Tag = 0x0d
	TagPointerType           Tag = 0x0f
	TagReferenceType         Tag = 0x10
	TagCompileUnit           Tag = 0x11
	TagStringType            Tag = 0x12
	TagStructureType         Tag = 0x13
	TagSubroutineType        Tag = 0x15
	TagTypedef               Tag = 0x16
	TagUnionType             Tag = 0x17
	TagUnspecifiedParameters Tag = 0x18
	TagVariant               Tag = 0x19
	TagCommonBlock           Tag = 0x1a
	TagCommonInclusion       Tag = 0x1b
	TagInheritance           Tag = 0x1c
	TagInlinedSubroutine     Tag = 0x1d
	TagModule                Tag = 0x1e
	TagPtrToMemberType       Tag = 0x1f
	TagSetType               Tag = 0x20
	TagSubrangeType          Tag = 0x21
	TagWithStmt              Tag = 0x22
	TagAccessDeclaration     Tag = 0x23
	TagBaseType              Tag = 0x24
	TagCatchBlock            Tag = 0x25
	TagConstType             Tag = 0x26
	TagConstant              Tag = 0x27
	TagEnumerator            Tag = 0x28
	TagFileType              Tag = 0x29
	TagFriend                Tag = 0x2a
	TagNamelist              Tag = 0x2b
	TagNamelistItem          Tag = 0x2c
	TagPackedType            Tag = 0x2d
	TagSubprogram            Tag = 0x2e
	TagTemplateTypeParam     Tag = 0x2f
	TagTemplateValueParam    Tag = 0x30
	TagThrownType            Tag = 0x31
	TagTryBlock              Tag = 0x32
	TagVariantPart           Tag = 0x33
	TagVariable              Tag = 0x34
	TagVolatileType          Tag = 0x35
	TagLoUser                Tag = 0x4080
	TagHiUser                Tag = 0xffff
)

// DWARF v2/v3 attribute constants.
const (
	AttrSibling             Attr = 0x01
	AttrLocation            Attr = 0x02
	AttrName                Attr = 0x03
	AttrOrdering            Attr = 0x09
	AttrByteSize            Attr = 0x0b
	AttrBitOffset           Attr = 0x0c
	AttrBitSize             Attr = 0x0d
	AttrStmtList            Attr = 0x10
	AttrLowPC               Attr = 0x11
	AttrHighPC              Attr = 0x12
	AttrLanguage            Attr = 0x13
	AttrDiscr               Attr = 0x15
	AttrDiscrValue          Attr = 0x16
	AttrVisibility          Attr = 0x17
	AttrImport              Attr = 0x18
	AttrStringLength        Attr = 0x19
	AttrCommonReference     Attr = 0x1a
	AttrCompDir             Attr = 0x1b
	AttrConstValue          Attr = 0x1c
	AttrContainingType      Attr = 0x1d
	AttrDefaultValue        Attr = 0x1e
	AttrInline              Attr = 0x20
	AttrIsOptional          Attr = 0x21
	AttrLowerBound          Attr = 0x22
	AttrProducer            Attr = 0x25
	AttrPrototyped          Attr = 0x27
	AttrReturnAddr          Attr = 0x2a
	AttrStartScope          Attr = 0x2c
	AttrStrideSize          Attr = 0x2e
	AttrUpperBound          Attr = 0x2f
	AttrAbstractOrigin      Attr = 0x31
	AttrAccessibility       Attr = 0x32
	AttrAddressClass        Attr = 0x33
	AttrArtificial          Attr = 0x34
	AttrBaseTypes           Attr = 0x35
	AttrCallingConvention   Attr = 0x36
	AttrCount               Attr = 0x37
	AttrDataMemberLocation  Attr = 0x38
	AttrDeclColumn          Attr = 0x39
	AttrDeclFile            Attr = 0x3a
	AttrDeclLine            Attr = 0x3b
	AttrDeclaration         Attr = 0x3c
	AttrDiscrList           Attr = 0x3d
	AttrEncoding            Attr = 0x3e
	AttrExternal            Attr = 0x3f
	AttrFrameBase           Attr = 0x40
	AttrFriend              Attr = 0x41
	AttrIdentifierCase      Attr = 0x42
	AttrMacroInfo           Attr = 0x43
	AttrNamelistItem        Attr = 0x44
	AttrPriority            Attr = 0x45
	AttrSpecification       Attr = 0x47
	AttrStaticLink          Attr = 0x48
	AttrType                Attr = 0x49
	AttrUseLocation         Attr = 0x4a
	AttrVariableParameter   Attr = 0x4b
	AttrVirtuality          Attr = 0x4c
	AttrVtableElemLocation  Attr = 0x4d
	AttrAllocated           Attr = 0x4e
	AttrAssociated          Attr = 0x4f
	AttrDataLocation        Attr = 0x50
	AttrByteStride          Attr = 0x51
	AttrEntryPc             Attr = 0x52
	AttrUseUTF8             Attr = 0x53
	AttrExtension           Attr = 0x54
	AttrRanges              Attr = 0x55
	AttrTrampoline          Attr = 0x56
	AttrCallColumn          Attr = 0x57
	AttrCallFile            Attr = 0x58
	AttrCallLine            Attr = 0x59
	AttrDescription         Attr = 0x5a
	AttrBinaryScale         Attr = 0x5b
	AttrDecimalScale        Attr = 0x5c
	AttrSmall               Attr = 0x5d
	AttrDecimalSign         Attr = 0x5e
	AttrDigitCount          Attr = 0x5f
	AttrPictureString       Attr = 0x60
	AttrMutable             Attr = 0x61
	AttrThreadsScaled       Attr = 0x62
	AttrExplicit            Attr = 0x63
	AttrObjectPointer       Attr = 0x64
	AttrEndianity           Attr = 0x65
	AttrElemental           Attr = 0x66
	AttrPure                Attr = 0x67
	AttrRecursive           Attr = 0x68
	AttrSignature           Attr = 0x69
	AttrMainSubprogram      Attr = 0x6a
	AttrDataBitOffset       Attr = 0x6b
	AttrConstExpr           Attr = 0x6c
	AttrEnumClass           Attr = 0x6d
	AttrLinkageName         Attr = 0x6e
	AttrLoUser              Attr = 0x2000
	AttrHiUser              Attr = 0x3fff
)

// DWARF v2/v3 form constants.
const (
	FormAddr     Form = 0x01
	FormBlock2   Form = 0x03
	FormBlock4   Form = 0x04
	FormData2    Form = 0x05
	FormData4    Form = 0x06
	FormData8    Form = 0x07
	FormString   Form = 0x08
	FormBlock    Form = 0x09
	FormBlock1   Form = 0x0a
	FormData1    Form = 0x0b
	FormFlag     Form = 0x0c
	FormSdata    Form = 0x0d
	FormStrp     Form = 0x0e
	FormUdata    Form = 0x0f
	FormRefAddr  Form = 0x10
	FormRef1     Form = 0x11
	FormRef2     Form = 0x12
	FormRef4     Form = 0x13
	FormRef8     Form = 0x14
	FormRefUdata Form = 0x15
	FormIndirect Form = 0x16
)

// Standard line-number program opcodes (DW_LNS_*).
const (
	LnsCopy             = 0x01
	LnsAdvancePC        = 0x02
	LnsAdvanceLine      = 0x03
	LnsSetFile          = 0x04
	LnsSetColumn        = 0x05
	LnsNegateStmt       = 0x06
	LnsSetBasicBlock    = 0x07
	LnsConstAddPC       = 0x08
	LnsFixedAdvancePC   = 0x09
	LnsSetPrologueEnd   = 0x0a
	LnsSetEpilogueBegin = 0x0b
	LnsSetIsa           = 0x0c
)

// Extended line-number program opcodes (DW_LNE_*).
const (
	LneEndSequence      = 0x01
	LneSetAddress       = 0x02
	LneDefineFile       = 0x03
	LneSetDiscriminator = 0x04
)

var tagNames = map[Tag]string{
	TagArrayType: "array_type", TagClassType: "class_type", TagEntryPoint: "entry_point",
	TagEnumerationType: "enumeration_type", TagFormalParameter: "formal_parameter",
	TagImportedDeclaration: "imported_declaration", TagLabel: "label",
	TagLexicalBlock: "lexical_block", TagMember: "member", TagPointerType: "pointer_type",
	TagReferenceType: "reference_type", TagCompileUnit: "compile_unit",
	TagStringType: "string_type", TagStructureType: "structure_type",
	TagSubroutineType: "subroutine_type", TagTypedef: "typedef", TagUnionType: "union_type",
	TagUnspecifiedParameters: "unspecified_parameters", TagVariant: "variant",
	TagCommonBlock: "common_block", TagCommonInclusion: "common_inclusion",
	TagInheritance: "inheritance", TagInlinedSubroutine: "inlined_subroutine",
	TagModule: "module", TagPtrToMemberType: "ptr_to_member_type", TagSetType: "set_type",
	TagSubrangeType: "subrange_type", TagWithStmt: "with_stmt",
	TagAccessDeclaration: "access_declaration", TagBaseType: "base_type",
	TagCatchBlock: "catch_block", TagConstType: "const_type", TagConstant: "constant",
	TagEnumerator: "enumerator", TagFileType: "file_type", TagFriend: "friend",
	TagNamelist: "namelist", TagNamelistItem: "namelist_item", TagPackedType: "packed_type",
	TagSubprogram: "subprogram", TagTemplateTypeParam: "template_type_param",
	TagTemplateValueParam: "template_value_param", TagThrownType: "thrown_type",
	TagTryBlock: "try_block", TagVariantPart: "variant_part", TagVariable: "variable",
	TagVolatileType: "volatile_type",
}

var attrNames = map[Attr]string{
	AttrSibling: "sibling", AttrLocation: "location", AttrName: "name",
	AttrOrdering: "ordering", AttrByteSize: "byte_size", AttrBitOffset: "bit_offset",
	AttrBitSize: "bit_size", AttrStmtList: "stmt_list", AttrLowPC: "low_pc",
	AttrHighPC: "high_pc", AttrLanguage: "language", AttrDiscr: "discr",
	AttrDiscrValue: "discr_value", AttrVisibility: "visibility", AttrImport: "import",
	AttrStringLength: "string_length", AttrCommonReference: "common_reference",
	AttrCompDir: "comp_dir", AttrConstValue: "const_value",
	AttrContainingType: "containing_type", AttrDefaultValue: "default_value",
	AttrInline: "inline", AttrIsOptional: "is_optional", AttrLowerBound: "lower_bound",
	AttrProducer: "producer", AttrPrototyped: "prototyped", AttrReturnAddr: "return_addr",
	AttrStartScope: "start_scope", AttrStrideSize: "stride_size",
	AttrUpperBound: "upper_bound", AttrAbstractOrigin: "abstract_origin",
	AttrAccessibility: "accessibility", AttrAddressClass: "address_class",
	AttrArtificial: "artificial", AttrBaseTypes: "base_types",
	AttrCallingConvention: "calling_convention", AttrCount: "count",
	AttrDataMemberLocation: "data_member_location", AttrDeclColumn: "decl_column",
	AttrDeclFile: "decl_file", AttrDeclLine: "decl_line", AttrDeclaration: "declaration",
	AttrDiscrList: "discr_list", AttrEncoding: "encoding", AttrExternal: "external",
	AttrFrameBase: "frame_base", AttrFriend: "friend", AttrIdentifierCase: "identifier_case",
	AttrMacroInfo: "macro_info", AttrNamelistItem: "namelist_item", AttrPriority: "priority",
	AttrSpecification: "specification", AttrStaticLink: "static_link", AttrType: "type",
	AttrUseLocation: "use_location", AttrVariableParameter: "variable_parameter",
	AttrVirtuality: "virtuality", AttrVtableElemLocation: "vtable_elem_location",
	AttrAllocated: "allocated", AttrAssociated: "associated", AttrDataLocation: "data_location",
	AttrByteStride: "byte_stride", AttrEntryPc: "entry_pc", AttrUseUTF8: "use_UTF8",
	AttrExtension: "extension", AttrRanges: "ranges", AttrTrampoline: "trampoline",
	AttrCallColumn: "call_column", AttrCallFile: "call_file", AttrCallLine: "call_line",
	AttrDescription: "description", AttrBinaryScale: "binary_scale",
	AttrDecimalScale: "decimal_scale", AttrSmall: "small", AttrDecimalSign: "decimal_sign",
	AttrDigitCount: "digit_count", AttrPictureString: "picture_string", AttrMutable: "mutable",
	AttrThreadsScaled: "threads_scaled", AttrExplicit: "explicit",
	AttrObjectPointer: "object_pointer", AttrEndianity: "endianity",
	AttrElemental: "elemental", AttrPure: "pure", AttrRecursive: "recursive",
	AttrSignature: "signature", AttrMainSubprogram: "main_subprogram",
	AttrDataBitOffset: "data_bit_offset", AttrConstExpr: "const_expr",
	AttrEnumClass: "enum_class", AttrLinkageName: "linkage_name",
}

var formNames = map[Form]string{
	FormAddr: "addr", FormBlock2: "block2", FormBlock4: "block4", FormData2: "data2",
	FormData4: "data4", FormData8: "data8", FormString: "string", FormBlock: "block",
	FormBlock1: "block1", FormData1: "data1", FormFlag: "flag", FormSdata: "sdata",
	FormStrp: "strp", FormUdata: "udata", FormRefAddr: "ref_addr", FormRef1: "ref1",
	FormRef2: "ref2", FormRef4: "ref4", FormRef8: "ref8", FormRefUdata: "ref_udata",
	FormIndirect: "indirect",
}

// String renders a tag by its DW_TAG_ name, or a numeric fallback for
// vendor/user-range values this registry doesn't know.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return "DW_TAG_" + name
	}
	return unknownName("DW_TAG", uint64(t))
}

// String renders an attribute by its DW_AT_ name, or a numeric fallback.
func (a Attr) String() string {
	if name, ok := attrNames[a]; ok {
		return "DW_AT_" + name
	}
	return unknownName("DW_AT", uint64(a))
}

// String renders a form by its DW_FORM_ name, or a numeric fallback.
func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return "DW_FORM_" + name
	}
	return unknownName("DW_FORM", uint64(f))
}

func unknownName(prefix string, id uint64) string {
	return prefix + "_unknown_" + utils.FormatUintHex(id, 0)
}
