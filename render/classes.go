package render

// Class names and data attributes of rendered XHTML. Exported HTML can be
// imported back, so these are part of the persisted format.
const (
	ClassPage        = "page"
	ClassPageHeader  = "page-header"
	ClassTitle       = "title"
	ClassSubtitle    = "subtitle"
	ClassPageFooter  = "page-footer"
	ClassFooterText  = "footer-text"
	ClassPageNumber  = "page-number"
	ClassColumns     = "columns"
	ClassColumn      = "column"
	ClassDataItem    = "data-item"
	ClassBlockLabel  = "block-label"
	ClassBordered    = "bordered"
	ClassBgGray      = "bg-gray"
	ClassMath        = "math"
	ClassBlank       = "blank-box"
	ClassConcept     = "concept-blank"
	ClassUnderline   = "underline"
	ClassPlaceholder = "image-placeholder"
	ClassImage       = "image"
	ClassTable       = "data-table"
	ClassChoiceGrid  = "choice-grid"
	ClassChoice      = "choice"
	ClassChoiceLabel = "choice-label"
	ClassChoiceText  = "choice-text"
	ClassBox         = "box"
	ClassBoxLabel    = "box-label"
	ClassBoxBody     = "box-body"
	ClassRectBox     = "rect-box"

	AttrID      = "data-id"
	AttrType    = "data-type"
	AttrLabel   = "data-label"
	AttrVariant = "data-variant"
	AttrDerived = "data-derived"
	AttrTeX     = "data-tex"
	AttrDisplay = "data-display"
	AttrDelim   = "data-delim"
	AttrIndex   = "data-index"
	AttrRaw     = "data-raw"
	AttrBody    = "data-body"
	AttrRows    = "data-rows"
	AttrCols    = "data-cols"
	AttrCell    = "data-cell"
	AttrLayout  = "data-layout"
	AttrNumber  = "data-choice"
	AttrKeyword = "data-keyword"
	AttrPage    = "data-page"
	AttrSide    = "data-side"
)
