package ikea

const cartFragment = `
fragment CartProps on Cart {
  context { userId isAnonymous retailId }
  checksum
  coupon { code description }
  regularTotalPrice { inclTax currency }
  items {
    itemNo
    quantity
    type
    product { name typeName }
    regularTotalPrice { inclTax currency }
  }
}`

const (
	queryCart = `query Cart($languageCode: String) {
  cart(languageCode: $languageCode) { ...CartProps }
}` + cartFragment

	mutationClearItems = `mutation ClearItems($languageCode: String) {
  clearItems(languageCode: $languageCode) { ...CartProps }
}` + cartFragment

	mutationAddItems = `mutation AddItems($items: [AddItemInput!]!, $languageCode: String) {
  addItems(items: $items, languageCode: $languageCode) { ...CartProps }
}` + cartFragment

	mutationUpdateItems = `mutation UpdateItems($items: [UpdateItemInput!]!, $languageCode: String) {
  updateItems(items: $items, languageCode: $languageCode) { ...CartProps }
}` + cartFragment

	mutationCopyItems = `mutation CopyItems($sourceUserId: ID!, $languageCode: String) {
  copyItems(sourceUserId: $sourceUserId, languageCode: $languageCode) { ...CartProps }
}` + cartFragment

	mutationRemoveItems = `mutation RemoveItems($itemNos: [ID!]!, $languageCode: String) {
  removeItems(itemNos: $itemNos, languageCode: $languageCode) { ...CartProps }
}` + cartFragment

	mutationSetCoupon = `mutation SetCoupon($code: String!, $languageCode: String) {
  setCoupon(code: $code, languageCode: $languageCode) { ...CartProps }
}` + cartFragment

	mutationClearCoupon = `mutation ClearCoupon($languageCode: String) {
  clearCoupon(languageCode: $languageCode) { ...CartProps }
}` + cartFragment
)
