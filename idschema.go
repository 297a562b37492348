package silo

// Handle is a packed 64-bit identifier naming an entity's storage
// location: page index, in-page slot index, and a small flags field.
// Bit 63 is reserved to keep handles non-negative when interpreted as
// a signed integer (spec section 6).
type Handle uint64

// flagDetached marks a handle whose slot has been freed. A handle
// carrying this flag never resolves to a live object via Pool.GetEntry.
const flagDetached = uint64(1)

const flagBitsWidth = 3 // reserved flag bits, one of which is flagDetached

// IdSchema packs/unpacks (page, slot, flags) into a Handle. The layout
// places flags immediately below the reserved sign bit, page index
// below flags, and slot index below page index — matching spec
// section 6's default layout (flags 62-60, page 59-46, slot 45-30)
// when NumPagesBitSize=14 and PageCapacityBitSize=16. The low bits
// below the slot field are left unused/reserved.
type IdSchema struct {
	pageBits, slotBits       uint
	flagShift, pageShift     uint
	slotShift                uint
	pageMask, slotMask       uint64
	flagMask                 uint64
	maxPages, maxSlotsPerPage uint64
}

// NewIdSchema builds an IdSchema from Options, validating that
// PageBits + SlotBits + flagBitsWidth <= 63 per spec section 4.1.
func NewIdSchema(o Options) (IdSchema, error) {
	pageBits, slotBits := o.NumPagesBitSize, o.PageCapacityBitSize
	if pageBits+slotBits+flagBitsWidth > 63 {
		return IdSchema{}, InvalidHandleError{Page: uint64(pageBits), Slot: uint64(slotBits)}
	}
	flagShift := uint(63 - flagBitsWidth)
	pageShift := flagShift - pageBits
	slotShift := pageShift - slotBits
	return IdSchema{
		pageBits:       pageBits,
		slotBits:       slotBits,
		flagShift:      flagShift,
		pageShift:      pageShift,
		slotShift:      slotShift,
		pageMask:       (uint64(1)<<pageBits - 1) << pageShift,
		slotMask:       (uint64(1)<<slotBits - 1) << slotShift,
		flagMask:       (uint64(1)<<flagBitsWidth - 1) << flagShift,
		maxPages:       uint64(1) << pageBits,
		maxSlotsPerPage: uint64(1) << slotBits,
	}, nil
}

// MaxPages returns 2^NumPagesBitSize.
func (s IdSchema) MaxPages() uint64 { return s.maxPages }

// MaxSlotsPerPage returns 2^PageCapacityBitSize.
func (s IdSchema) MaxSlotsPerPage() uint64 { return s.maxSlotsPerPage }

// Encode packs page, slot and flags into a Handle. Bits of page/slot
// beyond the schema's configured widths are silently truncated by the
// mask, matching the round-trip contract only for in-range inputs
// (spec's decode(encode(p,s,f)) = (p,s,f) invariant holds for all
// p < MaxPages(), s < MaxSlotsPerPage()).
func (s IdSchema) Encode(page, slot, flags uint64) Handle {
	v := (page << s.pageShift) & s.pageMask
	v |= (slot << s.slotShift) & s.slotMask
	v |= (flags << s.flagShift) & s.flagMask
	return Handle(v)
}

// PageOf extracts the page index from a handle.
func (s IdSchema) PageOf(h Handle) uint64 {
	return (uint64(h) & s.pageMask) >> s.pageShift
}

// SlotOf extracts the slot index from a handle.
func (s IdSchema) SlotOf(h Handle) uint64 {
	return (uint64(h) & s.slotMask) >> s.slotShift
}

// FlagsOf extracts the raw flags field from a handle.
func (s IdSchema) FlagsOf(h Handle) uint64 {
	return (uint64(h) & s.flagMask) >> s.flagShift
}

// IsDetached reports whether h carries the detached flag.
func (s IdSchema) IsDetached(h Handle) bool {
	return s.FlagsOf(h)&flagDetached != 0
}

// WithDetached returns h with the detached flag set.
func (s IdSchema) WithDetached(h Handle) Handle {
	return Handle(uint64(h) | (flagDetached << s.flagShift))
}

// WithoutDetached returns h with the detached flag cleared, used when a
// handle is re-issued by Tenant.NextID (spec: "detached flag is cleared"
// on reissue).
func (s IdSchema) WithoutDetached(h Handle) Handle {
	return Handle(uint64(h) &^ (flagDetached << s.flagShift))
}
