package introspection

// IntrospectionQuery is the standard GraphiQL introspection query.
const IntrospectionQuery = `
query IntrospectionQuery {
	__schema {
		queryType { name }
		mutationType { name }
		subscriptionType { name }
		types {
			...FullType
		}
		directives {
			name
			description
			locations
			args {
				...InputValue
			}
		}
	}
}
` + fullTypeFragment + inputValueFragment + typeRefFragment

// inputTypesQuery fetches only what describes input and enum types.
const inputTypesQuery = `
query InputTypes {
	__schema {
		types {
			kind
			name
			description
			inputFields {
				...InputValue
			}
			enumValues(includeDeprecated: true) {
				name
				description
				isDeprecated
				deprecationReason
			}
		}
	}
}
` + inputValueFragment + typeRefFragment

const fullTypeFragment = `
fragment FullType on __Type {
	kind
	name
	description
	fields(includeDeprecated: true) {
		name
		description
		args {
			...InputValue
		}
		type {
			...TypeRef
		}
		isDeprecated
		deprecationReason
	}
	inputFields {
		...InputValue
	}
	interfaces {
		...TypeRef
	}
	enumValues(includeDeprecated: true) {
		name
		description
		isDeprecated
		deprecationReason
	}
	possibleTypes {
		...TypeRef
	}
}
`

const inputValueFragment = `
fragment InputValue on __InputValue {
	name
	description
	type { ...TypeRef }
	defaultValue
}
`

const typeRefFragment = `
fragment TypeRef on __Type {
	kind
	name
	ofType {
		kind
		name
		ofType {
			kind
			name
			ofType {
				kind
				name
				ofType {
					kind
					name
				}
			}
		}
	}
}
`
